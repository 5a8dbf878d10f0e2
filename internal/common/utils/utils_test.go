package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessAndErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessResponse(rec, map[string]int{"n": 1}, http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var ok Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.True(t, ok.Success)

	rec = httptest.NewRecorder()
	ErrorResponse(rec, "nope", http.StatusBadRequest)

	var bad Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bad))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, bad.Success)
	assert.Equal(t, "nope", bad.Error)
}

func TestValidateStruct(t *testing.T) {
	type req struct {
		Reason string `validate:"required,max=10"`
		Kind   string `validate:"oneof=a b"`
	}

	assert.NoError(t, ValidateStruct(req{Reason: "spam", Kind: "a"}))

	err := ValidateStruct(req{Kind: "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Reason is required")
	assert.Contains(t, err.Error(), "Kind must be one of [a b]")
}

func TestJWTRoundTrip(t *testing.T) {
	now := time.Now()
	token, err := GenerateJWT(&JWTClaims{
		UserID:    42,
		Username:  "ada",
		Type:      "access",
		ExpiresAt: now.Add(time.Hour).Unix(),
		IssuedAt:  now.Unix(),
	}, "secret")
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "access", claims.Type)

	_, err = ValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	token, err := GenerateJWT(&JWTClaims{
		UserID:    1,
		Type:      "access",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}, "secret")
	require.NoError(t, err)

	_, err = ValidateJWT(token, "secret")
	assert.Error(t, err)
}
