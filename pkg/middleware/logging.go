package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/golexcel/golexcel/pkg/contextkeys"
	"github.com/golexcel/golexcel/pkg/observability"
)

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogging assigns each request an ID, attaches a request-scoped
// logger, records metrics, and converts panics into 500s.
func RequestLogging(logger *observability.Logger, metrics *observability.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()

			ctx := contextkeys.WithValue(r.Context(), contextkeys.RequestIDKey, requestID)
			ctx = observability.WithLogger(ctx, logger)
			r = r.WithContext(ctx)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if p := recover(); p != nil {
					logger.WithField("panic", p).
						WithField("request_id", requestID).
						Error("handler panicked")
					http.Error(rec, "internal error", http.StatusInternalServerError)
				}

				route := r.URL.Path
				if current := mux.CurrentRoute(r); current != nil {
					if tpl, err := current.GetPathTemplate(); err == nil {
						route = tpl
					}
				}
				elapsed := time.Since(start)
				if metrics != nil {
					metrics.ObserveRequest(route, r.Method, rec.status, elapsed)
				}
				logger.WithField("request_id", requestID).
					WithField("method", r.Method).
					WithField("path", r.URL.Path).
					WithField("status", rec.status).
					WithField("duration_ms", elapsed.Milliseconds()).
					Info("request handled")
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
