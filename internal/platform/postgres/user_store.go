package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

// userColumns is the column list every user query selects, in scanUser order.
const userColumns = `u.id, u.username, u.email, u.hashed_password, u.full_name, u.bio,
		array_to_string(u.roles, ','), u.following_count, u.followers_count,
		u.last_login_at, u.created_at, u.updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create
// Returns store.ErrUsernameExists or store.ErrEmailExists on a unique violation.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		log.Warn("refusing to store user without a password hash",
			slog.String("user_id", user.ID.String()))
		return store.ErrInvalidEntity
	}

	query := `
		INSERT INTO users (
			id, username, email, hashed_password, full_name, bio, roles,
			following_count, followers_count, last_login_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, string_to_array($7, ','), $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.FullName,
		user.Bio,
		joinRoles(user.Roles),
		user.FollowingCount,
		user.FollowersCount,
		nullTime(user.LastLoginAt),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Debug("user uniqueness conflict",
				slog.String("user_id", user.ID.String()),
				slog.String("error", mapped.Error()))
			return mapped
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return mapped
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	return s.getOne(ctx, "user_id", id.String(), query, id)
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.username = $1`
	return s.getOne(ctx, "username", username, query, username)
}

func (s *PostgresUserStore) getOne(
	ctx context.Context,
	key, value, query string,
	arg any,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String(key, value))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String(key, value))
		return nil, MapError(err)
	}
	return user, nil
}

// ExistsByUsername implements store.UserStore.ExistsByUsername
func (s *PostgresUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

// ExistsByEmail implements store.UserStore.ExistsByEmail
// Emails compare case-insensitively.
func (s *PostgresUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email)
}

func (s *PostgresUserStore) exists(ctx context.Context, query string, arg any) (bool, error) {
	var found bool
	if err := s.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check user existence",
			slog.String("error", err.Error()))
		return false, MapError(err)
	}
	return found, nil
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET full_name = $1, bio = $2, last_login_at = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		user.FullName,
		user.Bio,
		nullTime(user.LastLoginAt),
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for update", slog.String("user_id", user.ID.String()))
		return err
	}

	log.Debug("user updated", slog.String("user_id", user.ID.String()))
	return nil
}

// AdjustFollowCounts implements store.UserStore.AdjustFollowCounts
// A count driven below zero violates users_follow_counts_check and surfaces
// as store.ErrInvalidEntity.
func (s *PostgresUserStore) AdjustFollowCounts(
	ctx context.Context,
	id uuid.UUID,
	followingDelta, followersDelta int,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET following_count = following_count + $1,
			followers_count = followers_count + $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, followingDelta, followersDelta, id)
	if err != nil {
		log.Error("failed to adjust follow counts",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		roles     string
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.FullName,
		&user.Bio,
		&roles,
		&user.FollowingCount,
		&user.FollowersCount,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Roles = splitRoles(roles)
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}
	return &user, nil
}

func joinRoles(roles []domain.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func splitRoles(s string) []domain.Role {
	if s == "" {
		return []domain.Role{}
	}
	parts := strings.Split(s, ",")
	roles := make([]domain.Role, len(parts))
	for i, p := range parts {
		roles[i] = domain.Role(p)
	}
	return roles
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
