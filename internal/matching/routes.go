// internal/matching/routes.go

package matching

import (
	"github.com/go-chi/chi/v5"

	"github.com/imadgeboyega/matcha-backend/internal/auth"
)

// RegisterRoutes registers browse, search, matches, map and fame routes
func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware *auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		// Browse & search
		r.Get("/api/v1/browse/suggestions", handler.GetSuggestions)
		r.Get("/api/v1/browse/search", handler.Search)

		// Matches & map
		r.Get("/api/v1/matches", handler.GetMatches)
		r.Get("/api/v1/map/users", handler.GetMapUsers)

		// Fame
		r.Get("/api/v1/users/{id}/fame", handler.GetFame)
		r.Post("/api/v1/users/{id}/fame/recompute", handler.RecomputeFame)
	})
}
