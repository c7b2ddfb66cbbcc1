package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

// PostgresTagStore implements the store.TagStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTagStore creates a new PostgreSQL implementation of the TagStore interface.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresTagStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTagStore{
		db:     db,
		logger: logger.With(slog.String("component", "tag_store")),
	}
}

var _ store.TagStore = (*PostgresTagStore)(nil)

// WithTx implements store.TagStore.WithTx
func (s *PostgresTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &PostgresTagStore{db: tx, logger: s.logger}
}

// GetByName implements store.TagStore.GetByName
func (s *PostgresTagStore) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var tag domain.Tag
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM tags WHERE name = $1`, name).
		Scan(&tag.ID, &tag.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("tag not found", slog.String("tag", name))
			return nil, store.ErrTagNotFound
		}
		log.Error("failed to get tag",
			slog.String("error", err.Error()),
			slog.String("tag", name))
		return nil, MapError(err)
	}
	return &tag, nil
}

// Create implements store.TagStore.Create
// A name conflict is absorbed by ON CONFLICT so the surrounding transaction
// stays usable for the caller's re-read; it still reports store.ErrTagExists.
func (s *PostgresTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		tag.ID, tag.Name)
	if err != nil {
		log.Error("failed to create tag",
			slog.String("error", err.Error()),
			slog.String("tag", tag.Name))
		return MapError(err)
	}

	inserted, err := changed(result)
	if err != nil {
		return err
	}
	if !inserted {
		log.Debug("tag already exists", slog.String("tag", tag.Name))
		return store.ErrTagExists
	}

	log.Debug("tag created", slog.String("tag", tag.Name))
	return nil
}
