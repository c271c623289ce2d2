package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"

	"github.com/sarthakjns/bazaario-backend/pkg/env"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local storefront
	"http://localhost:5173", // local admin panel
}

// CORS returns middleware that applies the API's allowed origin policy.
// Extra origins come from BAZAARIO_CORS_ORIGINS, comma separated.
func CORS() func(http.Handler) http.Handler {
	origins := defaultCORSOrigins
	if extra := env.Get("BAZAARIO_CORS_ORIGINS", ""); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
