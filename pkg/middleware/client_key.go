package middleware

import (
	"crypto/subtle"
	"net/http"

	"computer-booking/pkg/utils"

	"go.uber.org/zap"
)

const ClientKeyHeader = "X-Client-Key"

// ClientKey guards lock client routes with a shared key. An empty key
// leaves the routes open.
func ClientKey(key string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(ClientKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				logger.Warn("Client key rejected",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr))
				utils.ResponseUnauthorized(w, "Invalid client key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
