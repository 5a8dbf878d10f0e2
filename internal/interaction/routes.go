package interaction

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/imadgeboyega/matcha-backend/internal/auth"
)

// RateLimit bounds interaction requests per user. A zero Requests disables it.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware *auth.Middleware, limit RateLimit) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		if limit.Requests > 0 && limit.Window > 0 {
			r.Use(httprate.Limit(limit.Requests, limit.Window, httprate.WithKeyFuncs(keyByUser)))
		}

		r.Post("/api/v1/users/{id}/like", handler.Like)
		r.Delete("/api/v1/users/{id}/like", handler.Unlike)
		r.Post("/api/v1/users/{id}/view", handler.View)
		r.Post("/api/v1/users/{id}/block", handler.Block)
		r.Delete("/api/v1/users/{id}/block", handler.Unblock)
		r.Post("/api/v1/users/{id}/report", handler.Report)
	})
}

// keyByUser rate limits authenticated callers by id and everyone else by IP
func keyByUser(r *http.Request) (string, error) {
	if userID, ok := auth.GetUserIDFromContext(r.Context()); ok {
		return "user:" + strconv.FormatInt(userID, 10), nil
	}
	return httprate.KeyByIP(r)
}
