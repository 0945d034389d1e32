package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/api/shared"
	"github.com/phrazzld/palace-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
)

// stubJWTService validates exactly one token.
type stubJWTService struct {
	token  string
	claims *auth.Claims
	err    error
}

func (s *stubJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return s.token, nil
}

func (s *stubJWTService) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token != s.token {
		return nil, auth.ErrInvalidToken
	}
	return s.claims, nil
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		expectedStatus int
	}{
		{name: "valid token", authHeader: "Bearer good", expectedStatus: http.StatusOK},
		{name: "lowercase scheme", authHeader: "bearer good", expectedStatus: http.StatusOK},
		{name: "missing header", expectedStatus: http.StatusUnauthorized},
		{name: "no scheme", authHeader: "good", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic good", expectedStatus: http.StatusUnauthorized},
		{name: "unknown token", authHeader: "Bearer bad", expectedStatus: http.StatusUnauthorized},
		{name: "expired", authHeader: "Bearer good", validateErr: auth.ErrExpiredToken, expectedStatus: http.StatusUnauthorized},
		{name: "wrong type", authHeader: "Bearer good", validateErr: auth.ErrWrongTokenType, expectedStatus: http.StatusUnauthorized},
		{name: "unexpected error", authHeader: "Bearer good", validateErr: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtSvc := &stubJWTService{token: "good", claims: &auth.Claims{UserID: userID}, err: tt.validateErr}
			var gotUserID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = shared.GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/palaces", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			NewAuthMiddleware(jwtSvc).Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, userID, gotUserID)
			} else {
				assert.Equal(t, uuid.Nil, gotUserID)
			}
		})
	}
}
