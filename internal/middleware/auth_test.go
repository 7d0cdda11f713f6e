package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/httputil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

// stubVerifier accepts exactly one token.
type stubVerifier struct {
	token  string
	claims *models.Claims
}

func (s *stubVerifier) VerifyToken(token string) (*models.Claims, error) {
	if token != s.token {
		return nil, domain.ErrUnauthorized
	}
	return s.claims, nil
}

func (s *stubVerifier) Close() error { return nil }

func TestAuth(t *testing.T) {
	verifier := &stubVerifier{
		token: "good",
		claims: &models.Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user_1"},
			Role:             "editor",
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var seen *models.Actor
	handler := Auth(verifier, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httputil.GetActor(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantActor  *models.Actor
	}{
		{"anonymous", "", http.StatusNoContent, nil},
		{"valid token", "Bearer good", http.StatusNoContent, &models.Actor{ID: "user_1", Role: models.RoleEditor}},
		{"scheme is case-insensitive", "bearer good", http.StatusNoContent, &models.Actor{ID: "user_1", Role: models.RoleEditor}},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, nil},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized, nil},
		{"missing token", "Bearer ", http.StatusUnauthorized, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			r := httptest.NewRequest(http.MethodGet, "/events", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantActor, seen)
		})
	}
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}
