package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, true)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	assert.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, claims.IsAdmin)

	_, err = ValidateToken(token + "tampered")
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	var seenClaims *Claims
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenClaims = ClaimsFromRequest(r)
		w.WriteHeader(http.StatusOK)
	}))

	userID := uuid.New()
	token, err := GenerateToken(userID, false)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	// Valid token passes and attaches claims.
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.NotNil(t, seenClaims) {
		assert.Equal(t, userID, seenClaims.UserID)
	}

	// Missing header is rejected.
	seenClaims = nil
	req = httptest.NewRequest(http.MethodGet, "/posts", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Malformed scheme is rejected.
	req = httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Token "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unprotected routes skip authentication entirely.
	req = httptest.NewRequest(http.MethodPost, "/user/login", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seenClaims)
}
