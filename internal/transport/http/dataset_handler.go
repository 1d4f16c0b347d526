package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"growthboard/internal/dataset"
	apierrors "growthboard/internal/errors"
	"growthboard/internal/middleware"
	"growthboard/internal/services"
)

// DatasetHandler serves dataset metadata and uploads.
type DatasetHandler struct {
	service        DatasetServiceInterface
	orderSink      CanonicalOrderSetter
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
}

// NewDatasetHandler creates a new dataset handler. orderSink may be nil when
// uploads cannot override the export ordering.
func NewDatasetHandler(service DatasetServiceInterface, orderSink CanonicalOrderSetter, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *DatasetHandler {
	return &DatasetHandler{
		service:        service,
		orderSink:      orderSink,
		logger:         logger.With(slog.String("component", "dataset_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the dataset routes.
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetMetadata)
	r.Post("/", h.Upload)
	r.Get("/countries", h.GetCountries)
	r.Get("/variables", h.GetVariables)

	return r
}

// GetMetadata handles GET /api/dataset.
func (h *DatasetHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	md, err := h.service.Metadata(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoDataset) {
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusNotFound,
				"NO_DATASET",
				"No dataset loaded; upload one to begin",
			))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   md,
	})
}

// Upload handles POST /api/dataset: a multipart upload under field "file"
// that fully replaces the session dataset.
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_UPLOAD",
			"Could not parse multipart upload",
			err.Error(),
		))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Multipart field 'file' is required"))
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "dataset upload received",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
	)

	ds, err := h.service.LoadFromReader(r.Context(), file, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedFormat):
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Only .csv and .xlsx datasets are supported"))
		case errors.Is(err, dataset.ErrMalformed):
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusUnprocessableEntity,
				"DATASET_MALFORMED",
				"Dataset is malformed: expected Country and Variable name columns plus four-digit year columns",
				err.Error(),
			))
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return
	}

	// The upload may carry its own export ordering as a comma-separated
	// "variable_order" field.
	if h.orderSink != nil {
		if raw := r.FormValue("variable_order"); raw != "" {
			var order []string
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					order = append(order, v)
				}
			}
			if len(order) > 0 {
				h.orderSink.SetCanonicalOrder(order)
			}
		}
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"dataset_id": ds.ID,
			"source":     ds.Source,
			"rows":       len(ds.Rows),
			"years":      len(ds.Years),
		},
	})
}

// GetCountries handles GET /api/dataset/countries.
func (h *DatasetHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.Countries(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoDataset) {
			h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound, "NO_DATASET", "No dataset loaded"))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   countries,
		"count":  len(countries),
	})
}

// GetVariables handles GET /api/dataset/variables?country=.
func (h *DatasetHandler) GetVariables(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("country", "Query parameter 'country' is required"))
		return
	}

	variables, err := h.service.Variables(r.Context(), country)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoDataset):
			h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound, "NO_DATASET", "No dataset loaded"))
		case errors.Is(err, services.ErrCountryNotFound):
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusNotFound,
				"COUNTRY_NOT_FOUND",
				fmt.Sprintf("Country %q not found in dataset", country),
				map[string]string{"country": country},
			))
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"data":    variables,
		"count":   len(variables),
		"country": country,
	})
}
