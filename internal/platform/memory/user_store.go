package memory

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

// UserStore implements store.UserStore in memory.
type UserStore struct {
	db *DB
}

// NewUserStore creates a UserStore over db.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if user.HashedPassword == "" {
		return fmt.Errorf("%w: user has no hashed password", store.ErrInvalidEntity)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[user.ID]; ok {
		return fmt.Errorf("%w: user id %s", store.ErrDuplicate, user.ID)
	}
	for _, u := range s.db.users {
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrEmailExists
		}
	}
	s.db.users[user.ID] = *cloneUser(*user)
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// GetByUsername implements store.UserStore.GetByUsername.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// ExistsByUsername implements store.UserStore.ExistsByUsername.
func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.GetByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// ExistsByEmail implements store.UserStore.ExistsByEmail.
// Emails compare case-insensitively.
func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// Update implements store.UserStore.Update.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.db.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	current.FullName = user.FullName
	current.Bio = user.Bio
	current.LastLoginAt = user.LastLoginAt
	current.UpdatedAt = user.UpdatedAt
	s.db.users[user.ID] = *cloneUser(current)
	return nil
}

// AdjustFollowCounts implements store.UserStore.AdjustFollowCounts.
func (s *UserStore) AdjustFollowCounts(
	ctx context.Context,
	id uuid.UUID,
	followingDelta, followersDelta int,
) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.FollowingCount += followingDelta
	u.FollowersCount += followersDelta
	if u.FollowingCount < 0 || u.FollowersCount < 0 {
		return fmt.Errorf("%w: negative follow count for user %s", store.ErrInvalidEntity, id)
	}
	s.db.users[id] = u
	return nil
}

// WithTx returns the store itself; units of work are managed by DB.RunInTx.
func (s *UserStore) WithTx(*sql.Tx) store.UserStore {
	return s
}

// FollowStore implements store.FollowStore in memory.
type FollowStore struct {
	db *DB
}

// NewFollowStore creates a FollowStore over db.
func NewFollowStore(db *DB) *FollowStore {
	return &FollowStore{db: db}
}

var _ store.FollowStore = (*FollowStore)(nil)

// Add implements store.FollowStore.Add.
func (s *FollowStore) Add(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.requireUsers(followerID, followeeID); err != nil {
		return false, err
	}
	key := pairKey{followerID, followeeID}
	if _, ok := s.db.follows[key]; ok {
		return false, nil
	}
	s.db.follows[key] = edge{seq: s.db.nextSeq(), createdAt: time.Now().UTC()}
	return true, nil
}

// Remove implements store.FollowStore.Remove.
func (s *FollowStore) Remove(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	key := pairKey{followerID, followeeID}
	if _, ok := s.db.follows[key]; !ok {
		return false, nil
	}
	delete(s.db.follows, key)
	return true, nil
}

// Exists implements store.FollowStore.Exists.
func (s *FollowStore) Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	_, ok := s.db.follows[pairKey{followerID, followeeID}]
	return ok, nil
}

// ListFollowers implements store.FollowStore.ListFollowers.
func (s *FollowStore) ListFollowers(
	ctx context.Context,
	userID uuid.UUID,
	req domain.PageRequest,
) (*domain.Page[*domain.User], error) {
	return s.list(userID, req, func(k pairKey) (uuid.UUID, bool) {
		return k.a, k.b == userID
	})
}

// ListFollowing implements store.FollowStore.ListFollowing.
func (s *FollowStore) ListFollowing(
	ctx context.Context,
	userID uuid.UUID,
	req domain.PageRequest,
) (*domain.Page[*domain.User], error) {
	return s.list(userID, req, func(k pairKey) (uuid.UUID, bool) {
		return k.b, k.a == userID
	})
}

// list pages the users on the other side of userID's edges, most recent edge first.
func (s *FollowStore) list(
	userID uuid.UUID,
	req domain.PageRequest,
	other func(pairKey) (uuid.UUID, bool),
) (*domain.Page[*domain.User], error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	type hit struct {
		id  uuid.UUID
		seq uint64
	}
	var hits []hit
	for k, e := range s.db.follows {
		if id, ok := other(k); ok {
			hits = append(hits, hit{id: id, seq: e.seq})
		}
	}
	slices.SortFunc(hits, func(a, b hit) int {
		switch {
		case a.seq > b.seq:
			return -1
		case a.seq < b.seq:
			return 1
		}
		return 0
	})

	users := make([]*domain.User, 0, len(hits))
	for _, h := range hits {
		if u, ok := s.db.users[h.id]; ok {
			users = append(users, cloneUser(u))
		}
	}
	return page(users, req), nil
}

// requireUsers must be called with mu held.
func (s *FollowStore) requireUsers(ids ...uuid.UUID) error {
	for _, id := range ids {
		if _, ok := s.db.users[id]; !ok {
			return fmt.Errorf("%w: user %s does not exist", store.ErrInvalidEntity, id)
		}
	}
	return nil
}

// WithTx returns the store itself; units of work are managed by DB.RunInTx.
func (s *FollowStore) WithTx(*sql.Tx) store.FollowStore {
	return s
}
