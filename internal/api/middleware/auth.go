package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// UserIDHeader carries the subject authenticated by the upstream identity provider.
const UserIDHeader = "X-User-ID"

// Authenticate rejects requests without a valid user ID header and stores the
// user in the request context.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Missing "+UserIDHeader+" header")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", UserIDHeader+" must be a valid UUID")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// writeError mirrors handler.ErrorResponse without importing the handler package.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
