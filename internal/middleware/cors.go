package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"warehouse-backend/internal/config"
)

// NewCORS builds the CORS layer from config. The dashboard and the station
// pages are served from a different origin than the API, so this runs on
// every route.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
