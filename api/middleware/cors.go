package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var devCORSOrigins = []string{
	"http://localhost:5173", // vite dev server
	"http://localhost:3000",
}

// CORS returns middleware allowing the configured storefront origin plus the
// local dev servers.
func CORS(frontendOrigin string) func(http.Handler) http.Handler {
	origins := append([]string{}, devCORSOrigins...)
	if origin := strings.TrimRight(strings.TrimSpace(frontendOrigin), "/"); origin != "" {
		origins = append(origins, origin)
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Cart-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Cart-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
