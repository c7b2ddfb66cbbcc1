package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/api/shared"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/mocks"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "blogsphere_session"

func claimsEcho(t *testing.T, seen **auth.Claims) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := shared.GetClaims(r.Context())
		require.True(t, ok)
		*seen = claims
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate(t *testing.T) {
	claims := &auth.Claims{UserID: uuid.New(), Username: "alice", Roles: []domain.Role{domain.RoleReader}}

	tests := []struct {
		name       string
		header     string
		cookie     string
		validate   func(ctx context.Context, token string) (*auth.Claims, error)
		wantStatus int
	}{
		{
			name:       "bearer token",
			header:     "Bearer good",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "session cookie",
			cookie:     "good",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "no credentials",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic good",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired",
			header: "Bearer old",
			validate: func(context.Context, string) (*auth.Claims, error) {
				return nil, auth.ErrExpiredToken
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "tampered",
			cookie: "forged",
			validate: func(context.Context, string) (*auth.Claims, error) {
				return nil, auth.ErrInvalidToken
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "unexpected failure",
			header: "Bearer good",
			validate: func(context.Context, string) (*auth.Claims, error) {
				return nil, errors.New("keystore offline")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtSvc := &mocks.MockJWTService{
				ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
					assert.Equal(t, "good", token)
					return claims, nil
				},
			}
			if tt.validate != nil {
				jwtSvc.ValidateTokenFn = tt.validate
			}

			var seen *auth.Claims
			handler := NewAuthMiddleware(jwtSvc, cookieName).Authenticate(claimsEcho(t, &seen))

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Same(t, claims, seen)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireRole(domain.RoleAdmin)(ok)

	serve := func(claims *auth.Claims) int {
		req := httptest.NewRequest(http.MethodDelete, "/posts/x", nil)
		if claims != nil {
			req = req.WithContext(shared.WithClaims(req.Context(), claims))
		}
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&auth.Claims{
		UserID: uuid.New(), Roles: []domain.Role{domain.RoleBlogger},
	}))
	assert.Equal(t, http.StatusOK, serve(&auth.Claims{
		UserID: uuid.New(), Roles: []domain.Role{domain.RoleAdmin},
	}))
}

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.NewTestLogger(t)

	var traceID string
	handler := NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("handled")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, traceID, 32)
	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, traceID, e["trace_id"])
	}
}
