package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
)

// UserStore defines the interface for user data persistence (the identity store).
type UserStore interface {
	// Create saves a new user. The user must already carry a HashedPassword.
	// Returns ErrUsernameExists or ErrEmailExists on a uniqueness conflict.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// ExistsByUsername reports whether a user holds username.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether a user holds email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Update persists the mutable fields of a complete user record
	// (profile fields, last login, updated_at). Username, email, password and
	// follow counts are not written here.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// AdjustFollowCounts adds the deltas to a user's following/followers counts.
	// Returns ErrUserNotFound if the user does not exist.
	AdjustFollowCounts(ctx context.Context, id uuid.UUID, followingDelta, followersDelta int) error

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}

// FollowStore persists the follow relation as one row per (follower, followee)
// pair. A single row is both "followee ∈ follower.following" and
// "follower ∈ followee.followers"; there are no one-sided mutators.
type FollowStore interface {
	// Add records that followerID follows followeeID.
	// Reports false when the pair already existed.
	Add(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)

	// Remove deletes the pair. Reports false when it did not exist.
	Remove(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)

	// Exists reports whether followerID follows followeeID.
	Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)

	// ListFollowers pages the users following userID, most recent first.
	ListFollowers(ctx context.Context, userID uuid.UUID, page domain.PageRequest) (*domain.Page[*domain.User], error)

	// ListFollowing pages the users userID follows, most recent first.
	ListFollowing(ctx context.Context, userID uuid.UUID, page domain.PageRequest) (*domain.Page[*domain.User], error)

	// WithTx returns a FollowStore bound to tx.
	WithTx(tx *sql.Tx) FollowStore
}
