package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// UserStore is a mock of store.UserStore for use with testify/mock.
type UserStore struct {
	mock.Mock
}

var _ store.UserStore = (*UserStore)(nil)

// Create is a mock implementation of store.UserStore.Create
func (m *UserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByUsername is a mock implementation of store.UserStore.GetByUsername
func (m *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// ExistsByUsername is a mock implementation of store.UserStore.ExistsByUsername
func (m *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// ExistsByEmail is a mock implementation of store.UserStore.ExistsByEmail
func (m *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// Update is a mock implementation of store.UserStore.Update
func (m *UserStore) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// AdjustFollowCounts is a mock implementation of store.UserStore.AdjustFollowCounts
func (m *UserStore) AdjustFollowCounts(ctx context.Context, id uuid.UUID, followingDelta, followersDelta int) error {
	args := m.Called(ctx, id, followingDelta, followersDelta)
	return args.Error(0)
}

// WithTx returns the mock itself.
func (m *UserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}

// FollowStore is a mock of store.FollowStore for use with testify/mock.
type FollowStore struct {
	mock.Mock
}

var _ store.FollowStore = (*FollowStore)(nil)

// Add is a mock implementation of store.FollowStore.Add
func (m *FollowStore) Add(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

// Remove is a mock implementation of store.FollowStore.Remove
func (m *FollowStore) Remove(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

// Exists is a mock implementation of store.FollowStore.Exists
func (m *FollowStore) Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

// ListFollowers is a mock implementation of store.FollowStore.ListFollowers
func (m *FollowStore) ListFollowers(
	ctx context.Context,
	userID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.User], error) {
	args := m.Called(ctx, userID, page)
	if p, ok := args.Get(0).(*domain.Page[*domain.User]); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListFollowing is a mock implementation of store.FollowStore.ListFollowing
func (m *FollowStore) ListFollowing(
	ctx context.Context,
	userID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.User], error) {
	args := m.Called(ctx, userID, page)
	if p, ok := args.Get(0).(*domain.Page[*domain.User]); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx returns the mock itself.
func (m *FollowStore) WithTx(*sql.Tx) store.FollowStore {
	return m
}
