// Package app wires the dashboard server together: configuration,
// logging, the data and health services, the chi middleware chain, the
// API routes, Prometheus metrics, and graceful shutdown.
package app
