package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"growthboard/internal/dataset"
)

// ReloadNotifier receives a signal whenever the session dataset is replaced,
// so connected dashboard clients can recompute their current selection.
type ReloadNotifier interface {
	NotifyDatasetReloaded(datasetID, source string)
}

// DatasetService owns the session's current dataset snapshot. A reload fully
// replaces the snapshot; readers always see either the old or the new
// dataset, never a partial update.
type DatasetService struct {
	mu       sync.RWMutex
	current  *dataset.Dataset
	logger   *slog.Logger
	notifier ReloadNotifier
}

// NewDatasetService creates a dataset service. notifier may be nil when no
// live clients need reload events (the export CLI, tests).
func NewDatasetService(logger *slog.Logger, notifier ReloadNotifier) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		logger:   logger.With(slog.String("component", "dataset_service")),
		notifier: notifier,
	}
}

// Current returns the active dataset snapshot, or ErrNoDataset before the
// first successful load.
func (s *DatasetService) Current() (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoDataset
	}
	return s.current, nil
}

// LoadFromReader parses an uploaded table and swaps it in as the session
// dataset. The format is picked from the filename extension: .csv or .xlsx.
// A malformed table leaves the previous snapshot in place.
func (s *DatasetService) LoadFromReader(ctx context.Context, r io.Reader, filename string) (*dataset.Dataset, error) {
	var (
		ds  *dataset.Dataset
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		ds, err = dataset.FromCSV(r, filename)
	case ".xlsx":
		ds, err = dataset.FromExcel(r, filename)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("source", filename),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset replaced",
		slog.String("dataset_id", ds.ID),
		slog.String("source", ds.Source),
		slog.Int("rows", len(ds.Rows)),
		slog.Int("year_columns", len(ds.Years)))

	if s.notifier != nil {
		s.notifier.NotifyDatasetReloaded(ds.ID, ds.Source)
	}
	return ds, nil
}

// LoadFromFile loads a dataset from disk. Used for the configured startup
// dataset and by the export CLI.
func (s *DatasetService) LoadFromFile(ctx context.Context, path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()
	return s.LoadFromReader(ctx, f, filepath.Base(path))
}

// Metadata describes the current dataset for the dashboard header.
type Metadata struct {
	ID        string   `json:"id"`
	Source    string   `json:"source"`
	LoadedAt  string   `json:"loaded_at"`
	Rows      int      `json:"rows"`
	Countries int      `json:"countries"`
	FirstYear int      `json:"first_year"`
	LastYear  int      `json:"last_year"`
	Years     []int    `json:"years"`
	Sample    []string `json:"sample_countries,omitempty"`
}

// Metadata returns summary information about the current dataset.
func (s *DatasetService) Metadata(ctx context.Context) (*Metadata, error) {
	ds, err := s.Current()
	if err != nil {
		return nil, err
	}

	countries := ds.Countries()
	first, last := ds.YearSpan()
	md := &Metadata{
		ID:        ds.ID,
		Source:    ds.Source,
		LoadedAt:  ds.LoadedAt.Format("2006-01-02T15:04:05Z07:00"),
		Rows:      len(ds.Rows),
		Countries: len(countries),
		FirstYear: first,
		LastYear:  last,
		Years:     ds.Years,
	}
	if len(countries) > 5 {
		md.Sample = countries[:5]
	} else {
		md.Sample = countries
	}
	return md, nil
}

// Countries lists the dataset's countries in source order.
func (s *DatasetService) Countries(ctx context.Context) ([]string, error) {
	ds, err := s.Current()
	if err != nil {
		return nil, err
	}
	return ds.Countries(), nil
}

// Variables lists the variable names available for one country.
func (s *DatasetService) Variables(ctx context.Context, country string) ([]string, error) {
	ds, err := s.Current()
	if err != nil {
		return nil, err
	}
	variables := ds.VariablesFor(country)
	if len(variables) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrCountryNotFound, country)
	}
	return variables, nil
}
