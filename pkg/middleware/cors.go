package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS applies the shared cross-origin policy, reflecting allowed origins and
// handling preflight uniformly across all routes.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Webhook-Secret"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
