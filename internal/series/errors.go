package series

import "errors"

var (
	// ErrNotFound indicates no row in the dataset matches the requested
	// (country, variable) pair. Recoverable: surfaced as a per-variable
	// warning, never aborts a batch.
	ErrNotFound = errors.New("series not found")

	// ErrEmptyResult indicates the row exists but carries no coercible
	// value in any requested year. Recoverable, like ErrNotFound.
	ErrEmptyResult = errors.New("series has no valid values in range")

	// ErrInconsistentSeries indicates a series carries two values for the
	// same year; a pivot over such input is undefined. Fatal to the export
	// step only.
	ErrInconsistentSeries = errors.New("inconsistent series: duplicate year")
)
