package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows browser clients from any origin.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", ClientKeyHeader},
		MaxAge:         300,
	})
}
