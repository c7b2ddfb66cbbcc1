package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

// PasswordEncoder hashes plaintext passwords before they are persisted.
type PasswordEncoder interface {
	Encode(plaintext string) (string, error)
}

// UserService provides registration, profile and follow-graph operations.
type UserService interface {
	// RegisterUser persists candidate after checking that its username, then
	// its email, are free. The plaintext password is replaced by its hash.
	RegisterUser(ctx context.Context, candidate *domain.User) (*domain.User, error)

	// UpdateUser applies the non-nil fields of patch to the user's profile.
	UpdateUser(ctx context.Context, userID uuid.UUID, patch domain.UserPatch) (*domain.User, error)

	// RecordLogin stamps the user's last-login time. Callers must not fail a
	// login because of its error.
	RecordLogin(ctx context.Context, username string) error

	// FollowUser makes followerID follow followeeID. Repeating it is a no-op.
	FollowUser(ctx context.Context, followerID, followeeID uuid.UUID) error

	// UnfollowUser removes the follow. Repeating it is a no-op.
	UnfollowUser(ctx context.Context, followerID, followeeID uuid.UUID) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// IsFollowing reports whether followerID follows followeeID.
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)

	// ListFollowers pages the users following userID.
	ListFollowers(ctx context.Context, userID uuid.UUID, page domain.PageRequest) (*domain.Page[*domain.User], error)

	// ListFollowing pages the users userID follows.
	ListFollowing(ctx context.Context, userID uuid.UUID, page domain.PageRequest) (*domain.Page[*domain.User], error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	users   store.UserStore
	follows store.FollowStore
	tx      store.TxRunner
	encoder PasswordEncoder
	logger  *slog.Logger
	now     func() time.Time
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	users store.UserStore,
	follows store.FollowStore,
	tx store.TxRunner,
	encoder PasswordEncoder,
	logger *slog.Logger,
	opts ...Option,
) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if follows == nil {
		return nil, domain.NewValidationError("follows", "cannot be nil", domain.ErrValidation)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if encoder == nil {
		return nil, domain.NewValidationError("encoder", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := buildOptions(opts)
	return &userServiceImpl{
		users:   users,
		follows: follows,
		tx:      tx,
		encoder: encoder,
		logger:  logger.With(slog.String("component", "user_service")),
		now:     o.now,
	}, nil
}

// RegisterUser implements UserService.RegisterUser.
func (s *userServiceImpl) RegisterUser(
	ctx context.Context,
	candidate *domain.User,
) (*domain.User, error) {
	const op = "register user"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if candidate == nil {
		return nil, domain.NewValidationError("user", "is required", nil)
	}

	user := *candidate
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(user.Email)
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if len(user.Roles) == 0 {
		user.Roles = []domain.Role{domain.DefaultRole}
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	user.FollowingCount, user.FollowersCount = 0, 0
	user.LastLoginAt = nil
	user.HashedPassword = ""

	if user.Password == "" {
		return nil, domain.ErrEmptyPassword
	}
	if err := user.Validate(); err != nil {
		log.Debug("rejected invalid registration",
			slog.String("username", user.Username),
			slog.String("error", err.Error()))
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		taken, err := users.ExistsByUsername(ctx, user.Username)
		if err != nil {
			return NewServiceError(op, "failed to check username", err)
		}
		if taken {
			return fmt.Errorf("%w: %s", ErrDuplicateUsername, user.Username)
		}

		taken, err = users.ExistsByEmail(ctx, user.Email)
		if err != nil {
			return NewServiceError(op, "failed to check email", err)
		}
		if taken {
			return ErrDuplicateEmail
		}

		hash, err := s.encoder.Encode(user.Password)
		if err != nil {
			return NewServiceError(op, "failed to hash password", err)
		}
		user.HashedPassword = hash
		user.Password = ""

		if err := users.Create(ctx, &user); err != nil {
			switch {
			case errors.Is(err, store.ErrUsernameExists):
				return fmt.Errorf("%w: %s", ErrDuplicateUsername, user.Username)
			case errors.Is(err, store.ErrEmailExists):
				return ErrDuplicateEmail
			}
			return NewServiceError(op, "failed to save user", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) || errors.Is(err, ErrDuplicateEmail) {
			log.Debug("registration conflict",
				slog.String("username", user.Username),
				slog.String("error", err.Error()))
		} else {
			log.Error("failed to register user",
				slog.String("username", user.Username),
				slog.String("error", err.Error()))
		}
		return nil, txError(op, err)
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return &user, nil
}

// UpdateUser implements UserService.UpdateUser.
// The complete record is read, patched and written back within one unit of work.
func (s *userServiceImpl) UpdateUser(
	ctx context.Context,
	userID uuid.UUID,
	patch domain.UserPatch,
) (*domain.User, error) {
	const op = "update user"
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return lookupError(op, EntityUser, userID.String(), err)
		}
		if patch.IsEmpty() {
			updated = user
			return nil
		}

		if err := patch.Apply(user); err != nil {
			return err
		}
		user.UpdatedAt = s.now()

		if err := users.Update(ctx, user); err != nil {
			return lookupError(op, EntityUser, userID.String(), err)
		}
		updated = user
		return nil
	})
	if err != nil {
		log.Debug("failed to update user",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, txError(op, err)
	}

	log.Debug("user updated", slog.String("user_id", userID.String()))
	return updated, nil
}

// RecordLogin implements UserService.RecordLogin.
func (s *userServiceImpl) RecordLogin(ctx context.Context, username string) error {
	const op = "record login"
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByUsername(ctx, username)
		if err != nil {
			return lookupError(op, EntityUser, username, err)
		}

		now := s.now()
		user.LastLoginAt = &now
		if err := users.Update(ctx, user); err != nil {
			return lookupError(op, EntityUser, username, err)
		}
		return nil
	})
	if err != nil {
		log.Warn("failed to record login",
			slog.String("username", username),
			slog.String("error", err.Error()))
		return txError(op, err)
	}

	log.Debug("login recorded", slog.String("username", username))
	return nil
}

// FollowUser implements UserService.FollowUser.
func (s *userServiceImpl) FollowUser(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return s.writeFollow(ctx, "follow user", followerID, followeeID, true)
}

// UnfollowUser implements UserService.UnfollowUser.
func (s *userServiceImpl) UnfollowUser(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return s.writeFollow(ctx, "unfollow user", followerID, followeeID, false)
}

// writeFollow adds or removes the relation row and, only if the row changed,
// adjusts both users' counts in the same unit of work. A count failure after
// the row was written is an inconsistent graph write and rolls the unit back.
func (s *userServiceImpl) writeFollow(
	ctx context.Context,
	op string,
	followerID, followeeID uuid.UUID,
	follow bool,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("follower_id", followerID.String()),
		slog.String("followee_id", followeeID.String()),
	)

	if followerID == followeeID {
		log.Debug("rejected self follow")
		return ErrSelfFollowNotAllowed
	}

	var changed bool
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		follows := s.follows.WithTx(tx)

		for _, id := range []uuid.UUID{followerID, followeeID} {
			if _, err := users.GetByID(ctx, id); err != nil {
				return lookupError(op, EntityUser, id.String(), err)
			}
		}

		var err error
		delta := 1
		if follow {
			changed, err = follows.Add(ctx, followerID, followeeID)
		} else {
			changed, err = follows.Remove(ctx, followerID, followeeID)
			delta = -1
		}
		if err != nil {
			return NewServiceError(op, "failed to write follow relation", err)
		}
		if !changed {
			return nil
		}

		if err := users.AdjustFollowCounts(ctx, followerID, delta, 0); err != nil {
			return fmt.Errorf("%w: following count of %s: %v", ErrInconsistentGraphWrite, followerID, err)
		}
		if err := users.AdjustFollowCounts(ctx, followeeID, 0, delta); err != nil {
			return fmt.Errorf("%w: followers count of %s: %v", ErrInconsistentGraphWrite, followeeID, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInconsistentGraphWrite) {
			log.Error("follow graph write rolled back", slog.String("error", err.Error()))
		} else {
			log.Debug("follow graph write failed", slog.String("error", err.Error()))
		}
		return txError(op, err)
	}

	log.Debug("follow graph updated",
		slog.Bool("follow", follow),
		slog.Bool("changed", changed))
	return nil
}

// GetUser implements UserService.GetUser.
func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError("get user", EntityUser, userID.String(), err)
	}
	return user, nil
}

// GetUserByUsername implements UserService.GetUserByUsername.
func (s *userServiceImpl) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, lookupError("get user by username", EntityUser, username, err)
	}
	return user, nil
}

// IsFollowing implements UserService.IsFollowing.
func (s *userServiceImpl) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	ok, err := s.follows.Exists(ctx, followerID, followeeID)
	if err != nil {
		return false, NewServiceError("is following", "failed to read follow relation", err)
	}
	return ok, nil
}

// ListFollowers implements UserService.ListFollowers.
func (s *userServiceImpl) ListFollowers(
	ctx context.Context,
	userID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.User], error) {
	return s.listGraph(ctx, "list followers", userID, page, s.follows.ListFollowers)
}

// ListFollowing implements UserService.ListFollowing.
func (s *userServiceImpl) ListFollowing(
	ctx context.Context,
	userID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.User], error) {
	return s.listGraph(ctx, "list following", userID, page, s.follows.ListFollowing)
}

func (s *userServiceImpl) listGraph(
	ctx context.Context,
	op string,
	userID uuid.UUID,
	page domain.PageRequest,
	list func(context.Context, uuid.UUID, domain.PageRequest) (*domain.Page[*domain.User], error),
) (*domain.Page[*domain.User], error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, lookupError(op, EntityUser, userID.String(), err)
	}
	result, err := list(ctx, userID, page.Normalize())
	if err != nil {
		return nil, NewServiceError(op, "failed to list users", err)
	}
	return result, nil
}
