package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"growthboard/internal/dataset"
	"growthboard/internal/exporter"
	"growthboard/internal/series"
)

const tracerName = "growthboard/services"

// SeriesRequest is one dashboard selection: a country, a variable set, a
// year range, a transformation and an optional smoothing window.
type SeriesRequest struct {
	Country   string   `validate:"required"`
	Variables []string `validate:"required,min=1,dive,required"`
	FromYear  int      `validate:"required,min=1000,max=9999"`
	ToYear    int      `validate:"required,min=1000,max=9999"`
	Transform series.Transformation
	// Window is the trailing moving-average width; 0 or 1 disables smoothing.
	Window int `validate:"min=0,max=50"`
}

// VariableResult is the computed output for one requested variable.
type VariableResult struct {
	Variable string         `json:"variable"`
	Points   []series.Point `json:"points"`
	Summary  series.Summary `json:"summary"`
}

// SeriesResult is the aggregate output for one selection. Warnings collect
// per-variable data-quality issues; a variable that produced no output is
// simply absent from Results.
type SeriesResult struct {
	Country        string           `json:"country"`
	Transformation string           `json:"transformation"`
	Window         int              `json:"window"`
	Years          []int            `json:"years"`
	Results        []VariableResult `json:"results"`
	Warnings       []string         `json:"warnings"`
}

// SeriesService runs the extraction/transformation pipeline over the current
// dataset, one synchronous computation per selection. A failure on one
// variable never aborts the others.
type SeriesService struct {
	datasets *DatasetService
	logger   *slog.Logger
	validate *validator.Validate
	tracer   trace.Tracer

	orderMu        sync.RWMutex
	canonicalOrder []string
}

// NewSeriesService creates a series service. canonicalOrder is the injected
// display/export ordering of variable names; it is configuration, never
// derived from the dataset.
func NewSeriesService(datasets *DatasetService, canonicalOrder []string, logger *slog.Logger) *SeriesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeriesService{
		datasets:       datasets,
		canonicalOrder: canonicalOrder,
		logger:         logger.With(slog.String("component", "series_service")),
		validate:       validator.New(),
		tracer:         otel.Tracer(tracerName),
	}
}

// CanonicalOrder returns the current export ordering.
func (s *SeriesService) CanonicalOrder() []string {
	s.orderMu.RLock()
	defer s.orderMu.RUnlock()
	out := make([]string, len(s.canonicalOrder))
	copy(out, s.canonicalOrder)
	return out
}

// SetCanonicalOrder replaces the export ordering, e.g. from an upload that
// carries its own variable list.
func (s *SeriesService) SetCanonicalOrder(order []string) {
	cp := make([]string, len(order))
	copy(cp, order)
	s.orderMu.Lock()
	s.canonicalOrder = cp
	s.orderMu.Unlock()
}

// Compute runs the pipeline for one selection and returns per-variable
// transformed points, summary statistics and deduplicated warnings.
func (s *SeriesService) Compute(ctx context.Context, req SeriesRequest) (*SeriesResult, error) {
	ctx, span := s.tracer.Start(ctx, "series.compute",
		trace.WithAttributes(
			attribute.String("country", req.Country),
			attribute.Int("variables", len(req.Variables)),
			attribute.String("transform", req.Transform.String()),
		))
	defer span.End()

	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}
	normalize(&req, ds)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	result := &SeriesResult{
		Country:        req.Country,
		Transformation: req.Transform.String(),
		Window:         req.Window,
		Results:        []VariableResult{},
		Warnings:       []string{},
	}

	years := series.FilterYears(ds.Years, req.FromYear, req.ToYear)
	result.Years = years
	if len(years) == 0 {
		// Distinct "no data in range" condition: downstream computation is
		// suppressed, not failed.
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("no year columns between %d and %d", req.FromYear, req.ToYear))
		return result, nil
	}

	seen := make(map[string]struct{})
	warn := func(msg string) {
		if _, dup := seen[msg]; dup {
			return
		}
		seen[msg] = struct{}{}
		result.Warnings = append(result.Warnings, msg)
	}

	for _, variable := range req.Variables {
		ts, warnings, err := s.computeOne(ctx, ds, req, variable, years)
		for _, w := range warnings {
			warn(w)
		}
		if err != nil {
			switch {
			case errors.Is(err, series.ErrNotFound):
				warn(fmt.Sprintf("%s: not available for %s", variable, req.Country))
			case errors.Is(err, series.ErrEmptyResult):
				warn(fmt.Sprintf("%s: no valid values between %d and %d", variable, req.FromYear, req.ToYear))
			default:
				return nil, err
			}
			continue
		}

		result.Results = append(result.Results, VariableResult{
			Variable: variable,
			Points:   ts.Points,
			Summary:  series.Summarize(ts),
		})
	}

	s.logger.InfoContext(ctx, "selection computed",
		slog.String("country", req.Country),
		slog.String("transform", req.Transform.String()),
		slog.Int("requested", len(req.Variables)),
		slog.Int("produced", len(result.Results)),
		slog.Int("warnings", len(result.Warnings)))

	return result, nil
}

// ExportWide runs the pipeline and pivots the surviving series into the
// wide export table, columns in canonical order.
func (s *SeriesService) ExportWide(ctx context.Context, req SeriesRequest) (*exporter.WideTable, error) {
	ctx, span := s.tracer.Start(ctx, "series.export_wide",
		trace.WithAttributes(attribute.String("country", req.Country)))
	defer span.End()

	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}
	normalize(&req, ds)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}

	years := series.FilterYears(ds.Years, req.FromYear, req.ToYear)
	if len(years) == 0 {
		return nil, fmt.Errorf("%w: no year columns between %d and %d", ErrNothingToExport, req.FromYear, req.ToYear)
	}

	byVariable := make(map[string]series.TransformedSeries, len(req.Variables))
	for _, variable := range req.Variables {
		ts, _, err := s.computeOne(ctx, ds, req, variable, years)
		if err != nil {
			if errors.Is(err, series.ErrNotFound) || errors.Is(err, series.ErrEmptyResult) {
				continue
			}
			return nil, err
		}
		byVariable[variable] = ts
	}
	if len(byVariable) == 0 {
		return nil, fmt.Errorf("%w: country %q", ErrNothingToExport, req.Country)
	}

	table, err := exporter.BuildWideTable(byVariable, req.Country, s.CanonicalOrder())
	if err != nil {
		return nil, err
	}
	if len(table.Variables) == 0 {
		return nil, fmt.Errorf("%w: none of the selected variables appear in the canonical order", ErrNothingToExport)
	}
	return table, nil
}

// normalize fills an unset year range with the dataset's full span, the way
// the dashboard defaults its range slider.
func normalize(req *SeriesRequest, ds *dataset.Dataset) {
	first, last := ds.YearSpan()
	if req.FromYear == 0 {
		req.FromYear = first
	}
	if req.ToYear == 0 {
		req.ToYear = last
	}
}

// computeOne runs extract, transform and smooth for a single variable.
func (s *SeriesService) computeOne(ctx context.Context, ds *dataset.Dataset, req SeriesRequest, variable string, years []int) (series.TransformedSeries, []string, error) {
	raw, err := series.Extract(ds, req.Country, variable, years)
	if err != nil {
		return series.TransformedSeries{}, nil, err
	}
	ts, warnings := series.Transform(raw, req.Transform)
	ts = series.MovingAverage(ts, req.Window)
	return ts, warnings, nil
}
