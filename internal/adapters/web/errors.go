package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"reliable-inventory/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus writes a JSON response with the given status.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a service error onto an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, core.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity, "CAPACITY_EXCEEDED"
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, core.ErrInvariantViolation):
		return http.StatusInternalServerError, "INVARIANT_VIOLATION"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// writeServiceError writes err using statusFor. Server faults are logged and their detail is
// not echoed to the client.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("code", code),
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err))
		message = "internal server error"
	}
	writeError(w, r, message, code, status)
}
