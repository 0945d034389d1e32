// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts the JSON endpoints for authentication,
// palaces, furniture, flashcards and reviews to the services in
// internal/service.
//
// Handlers never expose raw errors: MapErrorToStatusCode and
// GetSafeErrorMessage translate service, store and domain errors into a
// status code and a sanitized message, and every error response carries the
// request's trace ID.
package api
