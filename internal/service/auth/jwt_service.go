package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
)

// JWTService defines operations for managing session tokens.
type JWTService interface {
	// GenerateToken creates a signed session token carrying the user's
	// identity and roles.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the authenticated principal recovered from a session token.
type Claims struct {
	UserID   uuid.UUID     `json:"uid,omitempty"`
	Username string        `json:"username,omitempty"`
	Roles    []domain.Role `json:"roles,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// HasRole reports whether the principal holds r.
func (c *Claims) HasRole(r domain.Role) bool {
	return domain.HasRole(c.Roles, r)
}
