package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "growthboard/internal/errors"
	"growthboard/internal/middleware"
	"growthboard/internal/series"
	"growthboard/internal/services"
)

// SeriesHandler serves the transformed-series chart payloads.
type SeriesHandler struct {
	service      SeriesServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(service SeriesServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SeriesHandler {
	return &SeriesHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "series_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the series routes.
func (h *SeriesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetSeries)
	return r
}

// GetSeries handles GET /api/series. One call recomputes the whole
// selection; per-variable problems come back as warnings, not failures.
func (h *SeriesHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	req, apiErr := parseSeriesRequest(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	h.logger.InfoContext(r.Context(), "computing series selection",
		slog.String("request_id", reqID),
		slog.String("country", req.Country),
		slog.Int("variables", len(req.Variables)),
		slog.String("transform", req.Transform.String()),
	)

	result, err := h.service.Compute(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

func (h *SeriesHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNoDataset):
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound, "NO_DATASET", "No dataset loaded"))
	case errors.Is(err, services.ErrInvalidRequest):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error()))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// parseSeriesRequest maps the selection query parameters onto a service
// request. Unset from/to default to the dataset's full span downstream.
func parseSeriesRequest(r *http.Request) (services.SeriesRequest, *apierrors.APIError) {
	q := r.URL.Query()
	var req services.SeriesRequest

	req.Country = q.Get("country")
	if req.Country == "" {
		return req, apierrors.ErrValidation("country", "Query parameter 'country' is required")
	}

	raw := q.Get("variables")
	if raw == "" {
		return req, apierrors.ErrValidation("variables", "Query parameter 'variables' is required")
	}
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			req.Variables = append(req.Variables, v)
		}
	}
	if len(req.Variables) == 0 {
		return req, apierrors.ErrValidation("variables", "At least one variable must be selected")
	}

	var err error
	if req.FromYear, err = parseYearParam(q.Get("from")); err != nil {
		return req, apierrors.ErrValidation("from", err.Error())
	}
	if req.ToYear, err = parseYearParam(q.Get("to")); err != nil {
		return req, apierrors.ErrValidation("to", err.Error())
	}

	req.Transform, err = series.ParseTransformation(q.Get("transform"))
	if err != nil {
		return req, apierrors.ErrValidation("transform", "Transform must be one of: raw, log, growth")
	}

	if windowStr := q.Get("window"); windowStr != "" {
		window, err := strconv.Atoi(windowStr)
		if err != nil || window < 1 || window > 50 {
			return req, apierrors.ErrValidation("window", "Window must be an integer between 1 and 50")
		}
		req.Window = window
	}

	return req, nil
}

func parseYearParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1000 || year > 9999 {
		return 0, fmt.Errorf("year must be a four-digit integer, got %q", s)
	}
	return year, nil
}
