package http

import (
	"context"
	"io"

	"growthboard/internal/dataset"
	"growthboard/internal/exporter"
	"growthboard/internal/services"
)

// DatasetServiceInterface abstracts dataset session management for handlers.
type DatasetServiceInterface interface {
	LoadFromReader(ctx context.Context, r io.Reader, filename string) (*dataset.Dataset, error)
	Metadata(ctx context.Context) (*services.Metadata, error)
	Countries(ctx context.Context) ([]string, error)
	Variables(ctx context.Context, country string) ([]string, error)
}

// SeriesServiceInterface abstracts the pipeline for handlers.
type SeriesServiceInterface interface {
	Compute(ctx context.Context, req services.SeriesRequest) (*services.SeriesResult, error)
	ExportWide(ctx context.Context, req services.SeriesRequest) (*exporter.WideTable, error)
}

// CanonicalOrderSetter lets an upload override the export column ordering.
type CanonicalOrderSetter interface {
	SetCanonicalOrder(order []string)
}
