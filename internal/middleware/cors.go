package middleware

import (
	"net/http"

	"pos-be/pkg/logger"
)

// The login widget callback is relayed from the browser, so the endpoint
// answers preflights itself. The header list is part of the front-end
// contract.
const (
	corsAllowOrigin  = "*"
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
)

// CORS sets the permissive CORS headers on every response and answers
// OPTIONS preflight requests directly with a bare 200.
func CORS(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", corsAllowOrigin)
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)

			if r.Method == http.MethodOptions {
				log.WithFields(map[string]interface{}{
					"origin": r.Header.Get("Origin"),
					"path":   r.URL.Path,
				}).Debug("CORS preflight")

				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
