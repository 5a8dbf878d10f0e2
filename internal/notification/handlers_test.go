package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/matcha-backend/internal/auth"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

func newTestRouter(svc Service, userID int64) http.Handler {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), userID)))
		})
	})
	r.Get("/api/v1/notifications", h.GetNotifications)
	r.Get("/api/v1/notifications/unread-count", h.GetUnreadCount)
	r.Post("/api/v1/notifications/{id}/read", h.MarkAsRead)
	r.Post("/api/v1/notifications/read-all", h.MarkAllAsRead)
	return r
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestNotificationHandlers(t *testing.T) {
	f := newFixture(Config{})
	require.NoError(t, f.service.Notify(context.Background(), 2, 1, TypeLike))
	router := newTestRouter(f.service, 2)

	rec := serve(router, http.MethodGet, "/api/v1/notifications?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var list envelope[NotificationsResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data.Notifications, 1)
	id := list.Data.Notifications[0].ID

	rec = serve(router, http.MethodGet, "/api/v1/notifications/unread-count")
	var count envelope[UnreadCountResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, 1, count.Data.UnreadCount)

	rec = serve(router, http.MethodPost, "/api/v1/notifications/999/read")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodPost, "/api/v1/notifications/"+strconv.FormatInt(id, 10)+"/read")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodPost, "/api/v1/notifications/read-all")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetNotificationsRejectsBadPaging(t *testing.T) {
	router := newTestRouter(newFixture(Config{}).service, 2)

	for _, target := range []string{
		"/api/v1/notifications?limit=abc",
		"/api/v1/notifications?limit=0",
		"/api/v1/notifications?limit=500",
		"/api/v1/notifications?offset=-1",
	} {
		rec := serve(router, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestMarkAsReadRejectsBadID(t *testing.T) {
	router := newTestRouter(newFixture(Config{}).service, 2)

	rec := serve(router, http.MethodPost, "/api/v1/notifications/abc/read")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
