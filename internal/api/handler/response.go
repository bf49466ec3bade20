package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/hszk-dev/mediamind/internal/api/middleware"
)

// maxJSONBodySize bounds request bodies decoded by decodeJSON.
const maxJSONBodySize = 1 << 20

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func Error(w http.ResponseWriter, status int, err string, message string) {
	JSON(w, status, ErrorResponse{
		Error:   err,
		Message: message,
	})
}

// decodeJSON decodes a single JSON document from the request body.
// It writes a 400 response and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodySize))
	if err := dec.Decode(dst); err != nil {
		msg := "Invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "Request body is empty"
		}
		Error(w, http.StatusBadRequest, "invalid_request", msg)
		return false
	}
	return true
}

// requireUser returns the authenticated user or writes a 401 response.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// parseUUIDParam writes a 400 response when value is not a UUID.
func parseUUIDParam(w http.ResponseWriter, value, code, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		Error(w, http.StatusBadRequest, code, message)
		return uuid.Nil, false
	}
	return id, true
}
