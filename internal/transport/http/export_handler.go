package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "growthboard/internal/errors"
	"growthboard/internal/exporter"
	"growthboard/internal/middleware"
	"growthboard/internal/series"
	"growthboard/internal/services"
)

// ExportHandler serves wide-table downloads.
type ExportHandler struct {
	service      SeriesServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler.
func NewExportHandler(service SeriesServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes.
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/wide.csv", h.ExportCSV)
	r.Get("/wide.xlsx", h.ExportExcel)
	return r
}

// ExportCSV handles GET /api/export/wide.csv.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	table, ok := h.buildTable(w, r)
	if !ok {
		return
	}

	filename := exportFilename(table.Country, "csv")
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := exporter.WriteCSV(w, table, exporter.CSVOptions{BOMPrefix: true}); err != nil {
		// Headers are already on the wire; log instead of re-rendering.
		h.logger.ErrorContext(r.Context(), "CSV export write failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()))
	}
}

// ExportExcel handles GET /api/export/wide.xlsx.
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	table, ok := h.buildTable(w, r)
	if !ok {
		return
	}

	filename := exportFilename(table.Country, "xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := exporter.WriteExcel(w, table); err != nil {
		h.logger.ErrorContext(r.Context(), "Excel export write failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()))
	}
}

// buildTable parses the selection and pivots it; on failure the error
// response is already written and ok is false.
func (h *ExportHandler) buildTable(w http.ResponseWriter, r *http.Request) (*exporter.WideTable, bool) {
	req, apiErr := parseSeriesRequest(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return nil, false
	}

	table, err := h.service.ExportWide(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoDataset):
			h.errorHandler.HandleError(w, r, apierrors.New(http.StatusNotFound, "NO_DATASET", "No dataset loaded"))
		case errors.Is(err, services.ErrNothingToExport):
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusNotFound, "NOTHING_TO_EXPORT",
				"The selection produced no exportable data", err.Error()))
		case errors.Is(err, series.ErrInconsistentSeries):
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusUnprocessableEntity, "INCONSISTENT_SERIES",
				"A series carries duplicate years; the export pivot is undefined", err.Error()))
		case errors.Is(err, services.ErrInvalidRequest):
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error()))
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return nil, false
	}
	return table, true
}

func exportFilename(country, ext string) string {
	safe := make([]rune, 0, len(country))
	for _, c := range country {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			safe = append(safe, c)
		case c == ' ', c == '-', c == '_':
			safe = append(safe, '_')
		}
	}
	return fmt.Sprintf("growth_accounting_%s_%s.%s", string(safe), time.Now().UTC().Format("20060102"), ext)
}
