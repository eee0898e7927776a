package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"shipment-dashboard/internal/api"
	"shipment-dashboard/internal/dashboard"
)

// ErrInvalidJSON is returned for request bodies that cannot be decoded.
var ErrInvalidJSON = errors.New("invalid JSON")

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeOK wraps data in a successful result.
func writeOK(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, api.OK(data))
}

// writeError maps err to a status code and writes a failed result.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Debug("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, api.Failure(err))
}

// statusFor picks the response code: 4xx for bad input and backend 404s,
// 502 for anything the backend or the transport failed on.
func statusFor(err error) int {
	var validationErr *ValidationError
	var apiErr *api.APIError
	switch {
	case errors.Is(err, ErrInvalidJSON),
		errors.As(err, &validationErr),
		errors.Is(err, dashboard.ErrInvalidStatus),
		errors.Is(err, dashboard.ErrEmptyResi),
		errors.Is(err, dashboard.ErrEmptyDocID):
		return http.StatusBadRequest
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
