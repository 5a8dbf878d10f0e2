// internal/interaction/handlers.go

package interaction

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/imadgeboyega/matcha-backend/internal/auth"
	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
	"github.com/imadgeboyega/matcha-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Like handles POST /api/v1/users/{id}/like
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	userID, targetID, ok := h.parties(w, r)
	if !ok {
		return
	}

	result, err := h.service.Like(r.Context(), userID, targetID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	logAction(r, "like", userID, targetID)
	utils.SuccessResponse(w, result, http.StatusOK)
}

// Unlike handles DELETE /api/v1/users/{id}/like
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, targetID, ok := h.parties(w, r)
	if !ok {
		return
	}

	result, err := h.service.Unlike(r.Context(), userID, targetID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	logAction(r, "unlike", userID, targetID)
	utils.SuccessResponse(w, result, http.StatusOK)
}

// View handles POST /api/v1/users/{id}/view
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	userID, targetID, ok := h.parties(w, r)
	if !ok {
		return
	}

	if err := h.service.View(r.Context(), userID, targetID); err != nil {
		h.handleError(w, r, err)
		return
	}

	logAction(r, "view", userID, targetID)
	utils.MessageResponse(w, "View recorded", http.StatusOK)
}

// Block handles POST /api/v1/users/{id}/block
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	userID, targetID, ok := h.parties(w, r)
	if !ok {
		return
	}

	if err := h.service.Block(r.Context(), userID, targetID); err != nil {
		h.handleError(w, r, err)
		return
	}

	logAction(r, "block", userID, targetID)
	utils.MessageResponse(w, "User blocked", http.StatusOK)
}

// Unblock handles DELETE /api/v1/users/{id}/block
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	userID, targetID, ok := h.parties(w, r)
	if !ok {
		return
	}

	if err := h.service.Unblock(r.Context(), userID, targetID); err != nil {
		h.handleError(w, r, err)
		return
	}

	logAction(r, "unblock", userID, targetID)
	utils.MessageResponse(w, "User unblocked", http.StatusOK)
}

// Report handles POST /api/v1/users/{id}/report. The body is optional.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	userID, targetID, ok := h.parties(w, r)
	if !ok {
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Report(r.Context(), userID, targetID, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	logAction(r, "report", userID, targetID)
	utils.MessageResponse(w, "Report submitted", http.StatusCreated)
}

// parties extracts the authenticated user and the target from the path
func (h *Handler) parties(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, targetID, true
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrCannotLikeSelf),
		errors.Is(err, ErrCannotBlockSelf),
		errors.Is(err, ErrCannotReportSelf):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUserNotFound):
		utils.ErrorResponse(w, "User not found", http.StatusNotFound)
	case errors.Is(err, ErrNotBlocked):
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrUserBlocked):
		utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrAlreadyBlocked):
		utils.ErrorResponse(w, err.Error(), http.StatusConflict)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("interaction failed")
		utils.ErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}

// logAction writes the audit line for a completed action
func logAction(r *http.Request, action string, userID, targetID int64) {
	logging.Ctx(r.Context()).Info().
		Str("action", action).
		Int64("user", userID).
		Int64("target", targetID).
		Str("ip", r.RemoteAddr).
		Msg("action")
}
