// Package exporter reshapes transformed series into the downloadable wide
// table (one row per year, one column per variable) and serializes it.
//
// BuildWideTable performs the long-to-wide pivot in a fixed canonical column
// order. WriteCSV and WriteExcel render the same table; no behavior differs
// between the two encodings beyond the container format.
package exporter
