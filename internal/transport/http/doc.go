// Package http contains the chi HTTP handlers for the dashboard API:
// dataset metadata and uploads, series computation, wide-table exports and
// health. Handlers translate service sentinel errors into RFC 7807 problem
// responses through the shared ErrorHandler.
package http
