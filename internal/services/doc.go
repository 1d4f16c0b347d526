// Package services implements the business logic layer between the HTTP
// transport and the pure series pipeline.
//
// DatasetService owns the session's current dataset snapshot (fully replaced
// on every upload); SeriesService runs filter → extract → transform →
// smooth per selection, collecting per-variable warnings instead of failing
// the batch, and pivots results for export.
package services
