package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/imadgeboyega/matcha-backend/internal/auth"
	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
	"github.com/imadgeboyega/matcha-backend/internal/common/utils"
)

const defaultPageSize = 20

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetNotifications retrieves notifications for the authenticated user
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	q, err := parseListQuery(r)
	if err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(q); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := h.service.List(r.Context(), userID, q)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int64("user", userID).Msg("failed to list notifications")
		utils.ErrorResponse(w, "Failed to get notifications", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, response, http.StatusOK)
}

// GetUnreadCount returns the number of unread notifications
func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to count notifications", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, UnreadCountResponse{UnreadCount: count}, http.StatusOK)
}

// MarkAsRead marks a notification as read
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	notificationID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	if err := h.service.MarkAsRead(r.Context(), notificationID, userID); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			utils.ErrorResponse(w, "Notification not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to mark as read", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Notification marked as read", http.StatusOK)
}

// MarkAllAsRead marks all notifications as read for the user
func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.MarkAllAsRead(r.Context(), userID); err != nil {
		utils.ErrorResponse(w, "Failed to mark all as read", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "All notifications marked as read", http.StatusOK)
}

func parseListQuery(r *http.Request) (ListQuery, error) {
	values := r.URL.Query()
	q := ListQuery{Limit: defaultPageSize}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("limit must be an integer")
		}
		q.Limit = limit
	}
	if raw := values.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("offset must be an integer")
		}
		q.Offset = offset
	}
	q.UnreadOnly = values.Get("unread_only") == "true"
	return q, nil
}
