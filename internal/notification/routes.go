package notification

import (
	"github.com/go-chi/chi/v5"

	"github.com/imadgeboyega/matcha-backend/internal/auth"
)

func RegisterRoutes(r chi.Router, handler *Handler, authMiddleware *auth.Middleware) {
	r.Route("/api/v1/notifications", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/", handler.GetNotifications)
		r.Get("/unread-count", handler.GetUnreadCount)
		r.Post("/{id}/read", handler.MarkAsRead)
		r.Post("/read-all", handler.MarkAllAsRead)
	})
}
