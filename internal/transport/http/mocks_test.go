package http

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"

	"growthboard/internal/dataset"
	apierrors "growthboard/internal/errors"
	"growthboard/internal/exporter"
	"growthboard/internal/services"
)

// MockDatasetService is a mock implementation of DatasetServiceInterface.
type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) LoadFromReader(ctx context.Context, r io.Reader, filename string) (*dataset.Dataset, error) {
	args := m.Called(filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataset.Dataset), args.Error(1)
}

func (m *MockDatasetService) Metadata(ctx context.Context) (*services.Metadata, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Metadata), args.Error(1)
}

func (m *MockDatasetService) Countries(ctx context.Context) ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDatasetService) Variables(ctx context.Context, country string) ([]string, error) {
	args := m.Called(country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockSeriesService is a mock implementation of SeriesServiceInterface.
type MockSeriesService struct {
	mock.Mock
}

func (m *MockSeriesService) Compute(ctx context.Context, req services.SeriesRequest) (*services.SeriesResult, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SeriesResult), args.Error(1)
}

func (m *MockSeriesService) ExportWide(ctx context.Context, req services.SeriesRequest) (*exporter.WideTable, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exporter.WideTable), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testErrorHandler(t *testing.T) *apierrors.ErrorHandler {
	t.Helper()
	return apierrors.NewErrorHandler(testLogger())
}
