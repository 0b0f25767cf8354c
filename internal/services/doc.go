// Package services holds the business logic behind the HTTP transport.
//
// DataService owns the in-memory metadata table: it loads and cleans the
// CSV once, then answers filtered paper queries, aggregate statistics,
// CSV exports, and chart lookups from the cached copy. HealthService
// reports process and dataset health.
//
// Services accept a context on every operation and return sentinel
// errors (ErrDatasetNotLoaded, ErrChartNotFound, ErrInvalidFilter) that
// the transport layer maps to HTTP status codes.
package services
