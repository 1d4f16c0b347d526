package services

import "errors"

// Service-level errors
var (
	// Dataset errors
	ErrNoDataset         = errors.New("no dataset loaded")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrCountryNotFound   = errors.New("country not found")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")

	// Export errors
	ErrNothingToExport = errors.New("nothing to export")
)
