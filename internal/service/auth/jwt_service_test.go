package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/config"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

func newTestJWTService(t *testing.T, secret string, lifetime time.Duration, now func() time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(secret, lifetime, now)
	require.NoError(t, err)
	return svc
}

func testUser() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Username: "ada",
		Roles:    []domain.Role{domain.RoleBlogger, domain.RoleReader},
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
		require.Error(t, err)
	})

	t.Run("rejects non-positive lifetime", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret})
		require.Error(t, err)
	})

	t.Run("accepts valid config", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	user := testUser()

	svc := newTestJWTService(t, testSecret, tokenLifetime, func() time.Time {
		return fixedTime
	})

	token, err := svc.GenerateToken(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, user.Roles, claims.Roles)
	assert.True(t, claims.HasRole(domain.RoleBlogger))
	assert.False(t, claims.HasRole(domain.RoleAdmin))
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	user := testUser()
	at := func(ts time.Time) func() time.Time {
		return func() time.Time { return ts }
	}

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newTestJWTService(t, testSecret, tokenLifetime, at(fixedTime))
				token, err := svc.GenerateToken(context.Background(), user)
				require.NoError(t, err)
				return svc, token
			},
		},
		{
			name: "expired token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newTestJWTService(t, testSecret, tokenLifetime, at(fixedTime))
				token, err := genSvc.GenerateToken(context.Background(), user)
				require.NoError(t, err)
				valSvc := newTestJWTService(t, testSecret, tokenLifetime, at(fixedTime.Add(tokenLifetime+time.Hour)))
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newTestJWTService(t, testSecret, tokenLifetime, at(fixedTime))
				token, err := genSvc.GenerateToken(context.Background(), user)
				require.NoError(t, err)
				valSvc := newTestJWTService(t, wrongSecret, tokenLifetime, at(fixedTime))
				return valSvc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				return newTestJWTService(t, testSecret, tokenLifetime, at(fixedTime)), "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc(t)
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, user.ID, claims.UserID)
			}
		})
	}
}
