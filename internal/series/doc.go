// Package series implements the extraction and transformation pipeline for
// country-level growth-accounting time series.
//
// The pipeline is four pure, synchronous steps:
//
//  1. FilterYears restricts the dataset's year columns to an inclusive range.
//  2. Extract pulls the (country, variable) row and coerces cells to numbers.
//  3. Transform applies one of Raw, Log or GrowthRate and collects warnings.
//  4. MovingAverage / Summarize optionally smooth and describe the result.
//
// Every step operates on immutable value types; equivalent inputs produce
// identical outputs. Per-variable failures are sentinel errors (ErrNotFound,
// ErrEmptyResult) so batch callers can turn them into warnings instead of
// aborting.
package series
