package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

// PostgresFollowStore implements the store.FollowStore interface over the
// user_follows table, one row per (follower_id, followee_id) pair.
type PostgresFollowStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFollowStore creates a new PostgreSQL implementation of the FollowStore interface.
func NewPostgresFollowStore(db store.DBTX, logger *slog.Logger) *PostgresFollowStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresFollowStore{
		db:     db,
		logger: logger.With(slog.String("component", "follow_store")),
	}
}

var _ store.FollowStore = (*PostgresFollowStore)(nil)

// WithTx implements store.FollowStore.WithTx
func (s *PostgresFollowStore) WithTx(tx *sql.Tx) store.FollowStore {
	return &PostgresFollowStore{db: tx, logger: s.logger}
}

// Add implements store.FollowStore.Add
// Returns store.ErrInvalidEntity if either user does not exist.
func (s *PostgresFollowStore) Add(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_follows (follower_id, followee_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		log.Error("failed to add follow",
			slog.String("error", err.Error()),
			slog.String("follower_id", followerID.String()),
			slog.String("followee_id", followeeID.String()))
		return false, MapError(err)
	}
	return changed(result)
}

// Remove implements store.FollowStore.Remove
func (s *PostgresFollowStore) Remove(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM user_follows WHERE follower_id = $1 AND followee_id = $2`
	result, err := s.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		log.Error("failed to remove follow",
			slog.String("error", err.Error()),
			slog.String("follower_id", followerID.String()),
			slog.String("followee_id", followeeID.String()))
		return false, MapError(err)
	}
	return changed(result)
}

// Exists implements store.FollowStore.Exists
func (s *PostgresFollowStore) Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM user_follows WHERE follower_id = $1 AND followee_id = $2
		)
	`
	var found bool
	if err := s.db.QueryRowContext(ctx, query, followerID, followeeID).Scan(&found); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check follow",
			slog.String("error", err.Error()))
		return false, MapError(err)
	}
	return found, nil
}

// ListFollowers implements store.FollowStore.ListFollowers
func (s *PostgresFollowStore) ListFollowers(
	ctx context.Context,
	userID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.User], error) {
	return s.list(ctx, "followee_id", "follower_id", userID, page)
}

// ListFollowing implements store.FollowStore.ListFollowing
func (s *PostgresFollowStore) ListFollowing(
	ctx context.Context,
	userID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.User], error) {
	return s.list(ctx, "follower_id", "followee_id", userID, page)
}

// list pages the users on the other side of userID's edges. Column names
// come from the two callers above, never from input.
func (s *PostgresFollowStore) list(
	ctx context.Context,
	ownCol, otherCol string,
	userID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.User], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page = page.Normalize()

	var total int
	countQuery := `SELECT COUNT(*) FROM user_follows WHERE ` + ownCol + ` = $1`
	if err := s.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		log.Error("failed to count follows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	if total == 0 {
		return domain.EmptyPage[*domain.User](page), nil
	}

	query := `
		SELECT ` + userColumns + `
		FROM user_follows f
		JOIN users u ON u.id = f.` + otherCol + `
		WHERE f.` + ownCol + ` = $1
		ORDER BY f.created_at DESC, f.` + otherCol + ` DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, page.Limit, page.Offset)
	if err != nil {
		log.Error("failed to list follows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]*domain.User, 0, page.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating follow rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return domain.NewPage(users, total, page), nil
}
