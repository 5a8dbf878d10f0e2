package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	Init(Config{Level: "debug", Format: "json", Output: buf})
	t.Cleanup(func() { Init(Config{}) })
	return buf
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "info", parseLevel("nonsense").String())
	assert.Equal(t, "warn", parseLevel("WARNING").String())
	assert.Equal(t, "debug", parseLevel("debug").String())
}

func TestCtxAddsRequestID(t *testing.T) {
	buf := captureLogs(t)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	Ctx(ctx).Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "hello", line["message"])
}

func TestRequestIDFromContextMissing(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestMiddlewareLogsStatusAndSetsHeader(t *testing.T) {
	buf := captureLogs(t)

	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, "/health", line["path"])
}

func TestMiddlewareKeepsIncomingRequestID(t *testing.T) {
	captureLogs(t)

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}
