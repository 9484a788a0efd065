package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"pos-be/pkg/logger"
)

// RequestID creates a middleware that adds a unique request ID to each
// request
func RequestID(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			r = r.WithContext(ctx)

			w.Header().Set("X-Request-ID", requestID)

			log.WithField("request_id", requestID).Debug("Request received")

			next.ServeHTTP(w, r)
		})
	}
}
