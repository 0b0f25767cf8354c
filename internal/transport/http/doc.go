// Package http contains the HTTP transport layer: chi handlers that
// translate requests into service calls and service errors into
// RFC 7807 problem responses.
//
// Handlers declare the service interfaces they consume, so tests can
// exercise them against fakes without a loaded dataset.
package http
