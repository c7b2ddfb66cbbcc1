package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

// PostgresCommentStore implements the store.CommentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommentStore creates a new PostgreSQL implementation of the CommentStore interface.
func NewPostgresCommentStore(db store.DBTX, logger *slog.Logger) *PostgresCommentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCommentStore{
		db:     db,
		logger: logger.With(slog.String("component", "comment_store")),
	}
}

var _ store.CommentStore = (*PostgresCommentStore)(nil)

// WithTx implements store.CommentStore.WithTx
func (s *PostgresCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return &PostgresCommentStore{db: tx, logger: s.logger}
}

// Create implements store.CommentStore.Create
// Returns store.ErrInvalidEntity if the post or author does not exist.
func (s *PostgresCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		log.Warn("comment validation failed during create",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()))
		return err
	}

	query := `
		INSERT INTO comments (id, post_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()),
			slog.String("post_id", comment.PostID.String()))
		return MapError(err)
	}

	log.Debug("comment created",
		slog.String("comment_id", comment.ID.String()),
		slog.String("post_id", comment.PostID.String()))
	return nil
}

// GetByID implements store.CommentStore.GetByID
func (s *PostgresCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, post_id, author_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	comment, err := scanComment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("comment not found", slog.String("comment_id", id.String()))
			return nil, store.ErrCommentNotFound
		}
		log.Error("failed to get comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", id.String()))
		return nil, MapError(err)
	}
	return comment, nil
}

// Update implements store.CommentStore.Update
func (s *PostgresCommentStore) Update(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`,
		comment.Content, comment.UpdatedAt, comment.ID)
	if err != nil {
		log.Error("failed to update comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCommentNotFound)
}

// Delete implements store.CommentStore.Delete
func (s *PostgresCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCommentNotFound)
}

// ListByPostNewestFirst implements store.CommentStore.ListByPostNewestFirst
func (s *PostgresCommentStore) ListByPostNewestFirst(
	ctx context.Context,
	postID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.Comment], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page = page.Normalize()

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&total); err != nil {
		log.Error("failed to count comments",
			slog.String("error", err.Error()),
			slog.String("post_id", postID.String()))
		return nil, MapError(err)
	}
	if total == 0 {
		return domain.EmptyPage[*domain.Comment](page), nil
	}

	query := `
		SELECT id, post_id, author_id, content, created_at, updated_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, postID, page.Limit, page.Offset)
	if err != nil {
		log.Error("failed to list comments",
			slog.String("error", err.Error()),
			slog.String("post_id", postID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	comments := make([]*domain.Comment, 0, page.Limit)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			log.Error("failed to scan comment row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return domain.NewPage(comments, total, page), nil
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
