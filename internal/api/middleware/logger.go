package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/hszk-dev/mediamind/internal/infrastructure/metrics"
)

// Logger logs one line per request and records request metrics labelled by
// the matched route pattern.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				duration := time.Since(start)
				route := routePattern(r)
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
				metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())

				attrs := []any{
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("route", route),
					slog.Int("status", status),
					slog.Int("bytes", ww.BytesWritten()),
					slog.Duration("duration", duration),
					slog.String("remote_addr", r.RemoteAddr),
				}
				// Authenticate runs on inner routers, so read the header directly.
				if userID, err := uuid.Parse(r.Header.Get(UserIDHeader)); err == nil {
					attrs = append(attrs, slog.String("user_id", userID.String()))
				}

				switch {
				case status >= http.StatusInternalServerError:
					logger.Error("request completed", attrs...)
				case status >= http.StatusBadRequest:
					logger.Warn("request completed", attrs...)
				default:
					logger.Info("request completed", attrs...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
