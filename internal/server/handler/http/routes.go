package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/shorthub/coordinator/internal/middleware"
)

// NewRouter constructs the bridge's HTTP handler.
//
// Routes:
//
//	POST /api/message  → messageHandler.Message
//	GET  /api/health   → Health
//
// Middleware chain (applied in order):
//  1. RequestID: assigns X-Request-Id
//  2. WithRequestLogging(logger): logs each request
//  3. Recoverer: turns handler panics into 500
//  4. AllowedOrigins(origins): rejects foreign Origin headers, answers preflight
//  5. AllowContentType("application/json"): rejects non-JSON bodies
func NewRouter(messageHandler *MessageHandler, origins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.AllowedOrigins(origins))
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Route("/api", func(r chi.Router) {
		r.Post("/message", messageHandler.Message)
		r.Get("/health", Health)
	})

	return r
}
