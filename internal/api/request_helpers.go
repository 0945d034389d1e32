package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/api/shared"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/platform/logger"
)

// parsePositiveID parses a decimal record ID. Zero and negative values are rejected.
func parsePositiveID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(field, "must be a positive integer", domain.ErrInvalidID)
	}
	return id, nil
}

// getPathID extracts a numeric ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}
	return parsePositiveID(paramName, raw)
}

// getQueryID returns nil when the query parameter is absent.
func getQueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := parsePositiveID(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// getQueryTime parses an RFC 3339 timestamp; nil when absent.
func getQueryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be an RFC 3339 timestamp", domain.ErrInvalidFormat)
	}
	return &t, nil
}

// getQueryInt parses a non-negative integer; zero when absent.
func getQueryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, domain.NewValidationError(name, "must be a non-negative integer", domain.ErrInvalidFormat)
	}
	return v, nil
}

// requireUserID extracts the authenticated user, writing a 401 response when
// the authentication middleware did not run.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndPathID is a composite helper that extracts both the user ID
// from context and a numeric ID from the path. It writes an error response
// if either extraction fails.
func handleUserIDAndPathID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, int64, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return uuid.Nil, 0, false
	}

	id, err := getPathID(r, paramName)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Debug("invalid path parameter",
				slog.String("param_name", paramName),
				slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err)
		return uuid.Nil, 0, false
	}

	return userID, id, true
}

// decodeAndValidate decodes the JSON body into req and runs its struct
// validation, writing a 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		if MapErrorToStatusCode(err) == http.StatusBadRequest {
			HandleAPIError(w, r, err)
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}
