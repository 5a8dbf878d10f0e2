// internal/matching/handlers.go

package matching

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/imadgeboyega/matcha-backend/internal/auth"
	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
	"github.com/imadgeboyega/matcha-backend/internal/common/utils"
)

// Handler handles browse, search and fame HTTP requests
type Handler struct {
	service      Service
	defaultLimit int
	maxLimit     int
	timeout      time.Duration
}

// NewHandler creates a new matching handler. A zero timeout leaves the
// request context untouched.
func NewHandler(service Service, config Config, timeout time.Duration) *Handler {
	h := &Handler{
		service:      service,
		defaultLimit: config.DefaultLimit,
		maxLimit:     config.MaxLimit,
		timeout:      timeout,
	}
	if h.defaultLimit <= 0 {
		h.defaultLimit = 50
	}
	if h.maxLimit <= 0 {
		h.maxLimit = 200
	}
	return h
}

// GetSuggestions handles GET /api/v1/browse/suggestions
func (h *Handler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	h.rank(w, r, h.service.Suggestions)
}

// Search handles GET /api/v1/browse/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	h.rank(w, r, h.service.Search)
}

type rankFunc func(ctx context.Context, viewerID int64, q *SuggestionQuery) ([]ScoredCandidate, error)

func (h *Handler) rank(w http.ResponseWriter, r *http.Request, run rankFunc) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	q, err := ParseSuggestionQuery(r.URL.Query(), h.defaultLimit, h.maxLimit)
	if err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(q); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	results, err := run(ctx, viewerID, q)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
		case errors.Is(err, context.DeadlineExceeded):
			utils.ErrorResponse(w, "Ranking timed out", http.StatusGatewayTimeout)
		default:
			logging.Ctx(r.Context()).Error().Err(err).Int64("viewer", viewerID).Msg("failed to rank candidates")
			utils.ErrorResponse(w, "Failed to get suggestions", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, SuggestionsResponse{
		Results: results,
		Count:   len(results),
		Sort:    q.Sort,
		Limit:   q.Limit,
	}, http.StatusOK)
}

// GetMatches handles GET /api/v1/matches
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	matches, err := h.service.Matches(r.Context(), userID)
	if err != nil {
		h.listError(w, r, err, userID, "Failed to get matches")
		return
	}

	utils.SuccessResponse(w, MatchesResponse{Matches: matches, Count: len(matches)}, http.StatusOK)
}

// GetMapUsers handles GET /api/v1/map/users
func (h *Handler) GetMapUsers(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	users, err := h.service.MapUsers(r.Context(), viewerID)
	if err != nil {
		h.listError(w, r, err, viewerID, "Failed to get map users")
		return
	}

	utils.SuccessResponse(w, MapUsersResponse{Users: users, Count: len(users)}, http.StatusOK)
}

func (h *Handler) listError(w http.ResponseWriter, r *http.Request, err error, userID int64, message string) {
	if errors.Is(err, ErrProfileNotFound) {
		utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
		return
	}
	logging.Ctx(r.Context()).Error().Err(err).Int64("user", userID).Str("path", r.URL.Path).Msg("failed to list profiles")
	utils.ErrorResponse(w, message, http.StatusInternalServerError)
}

// GetFame handles GET /api/v1/users/{id}/fame
func (h *Handler) GetFame(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	breakdown, err := h.service.FameBreakdown(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to get fame", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, breakdown, http.StatusOK)
}

// RecomputeFame handles POST /api/v1/users/{id}/fame/recompute. Users may
// only recompute their own rating.
func (h *Handler) RecomputeFame(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	if userID != callerID {
		utils.ErrorResponse(w, "Forbidden", http.StatusForbidden)
		return
	}

	rating, err := h.service.RecomputeFame(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to recompute fame", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, FameResponse{UserID: userID, FameRating: rating}, http.StatusOK)
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}
