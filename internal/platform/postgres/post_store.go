package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

const postLikesPostFKey = "post_likes_post_id_fkey"

// postOrder returns the ORDER BY clause for a normalized sort order.
func postOrder(sort domain.SortOrder) string {
	if sort == domain.SortOldest {
		return `p.created_at ASC, p.id ASC`
	}
	return `p.created_at DESC, p.id DESC`
}

// PostgresPostStore implements the store.PostStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPostStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPostStore creates a new PostgreSQL implementation of the PostStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPostStore(db store.DBTX, logger *slog.Logger) *PostgresPostStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPostStore{
		db:     db,
		logger: logger.With(slog.String("component", "post_store")),
	}
}

var _ store.PostStore = (*PostgresPostStore)(nil)

// WithTx implements store.PostStore.WithTx
func (s *PostgresPostStore) WithTx(tx *sql.Tx) store.PostStore {
	return &PostgresPostStore{db: tx, logger: s.logger}
}

// Create implements store.PostStore.Create
// It inserts the post row and one post_tags row per tag.
// Returns store.ErrInvalidEntity if the author or a tag does not exist.
func (s *PostgresPostStore) Create(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		log.Warn("post validation failed during create",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return err
	}

	query := `
		INSERT INTO posts (id, author_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Content,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during post creation",
				slog.String("post_id", post.ID.String()),
				slog.String("author_id", post.AuthorID.String()))
		} else {
			log.Error("failed to create post",
				slog.String("error", err.Error()),
				slog.String("post_id", post.ID.String()))
		}
		return MapError(err)
	}

	for _, tag := range post.Tags {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			post.ID, tag.ID)
		if err != nil {
			log.Error("failed to link tag to post",
				slog.String("error", err.Error()),
				slog.String("post_id", post.ID.String()),
				slog.String("tag", tag.Name))
			return MapError(err)
		}
	}

	log.Info("post created",
		slog.String("post_id", post.ID.String()),
		slog.String("author_id", post.AuthorID.String()),
		slog.Int("tag_count", len(post.Tags)))
	return nil
}

// GetByID implements store.PostStore.GetByID
func (s *PostgresPostStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT p.id, p.author_id, p.title, p.content, p.created_at, p.updated_at
		FROM posts p
		WHERE p.id = $1
	`
	post, err := scanPost(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("post not found", slog.String("post_id", id.String()))
			return nil, store.ErrPostNotFound
		}
		log.Error("failed to get post",
			slog.String("error", err.Error()),
			slog.String("post_id", id.String()))
		return nil, MapError(err)
	}

	if err := s.hydrate(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// hydrate loads a post's tags (by name) and the IDs of the users who liked it.
func (s *PostgresPostStore) hydrate(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tagRows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`, post.ID)
	if err != nil {
		log.Error("failed to load post tags",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return MapError(err)
	}
	defer func() { _ = tagRows.Close() }()

	post.Tags = []domain.Tag{}
	for tagRows.Next() {
		var tag domain.Tag
		if err := tagRows.Scan(&tag.ID, &tag.Name); err != nil {
			return MapError(err)
		}
		post.Tags = append(post.Tags, tag)
	}
	if err := tagRows.Err(); err != nil {
		return MapError(err)
	}

	likeRows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM post_likes WHERE post_id = $1`, post.ID)
	if err != nil {
		log.Error("failed to load post likes",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return MapError(err)
	}
	defer func() { _ = likeRows.Close() }()

	post.LikedBy = domain.NewIDSet()
	for likeRows.Next() {
		var userID uuid.UUID
		if err := likeRows.Scan(&userID); err != nil {
			return MapError(err)
		}
		post.LikedBy.Add(userID)
	}
	return MapError(likeRows.Err())
}

// Update implements store.PostStore.Update
func (s *PostgresPostStore) Update(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		log.Warn("post validation failed during update",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE posts SET title = $1, content = $2, updated_at = $3 WHERE id = $4`,
		post.Title, post.Content, post.UpdatedAt, post.ID)
	if err != nil {
		log.Error("failed to update post",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrPostNotFound); err != nil {
		log.Debug("post not found for update", slog.String("post_id", post.ID.String()))
		return err
	}
	return nil
}

// Delete implements store.PostStore.Delete
// Comments, likes and tag links are removed by ON DELETE CASCADE.
func (s *PostgresPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete post",
			slog.String("error", err.Error()),
			slog.String("post_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrPostNotFound); err != nil {
		log.Debug("post not found for delete", slog.String("post_id", id.String()))
		return err
	}

	log.Info("post deleted", slog.String("post_id", id.String()))
	return nil
}

// ListByAuthor implements store.PostStore.ListByAuthor
func (s *PostgresPostStore) ListByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.Post], error) {
	page = page.Normalize()
	countQuery := `SELECT COUNT(*) FROM posts WHERE author_id = $1`
	query := `
		SELECT p.id, p.author_id, p.title, p.content, p.created_at, p.updated_at
		FROM posts p
		WHERE p.author_id = $1
		ORDER BY ` + postOrder(page.Sort) + `
		LIMIT $2 OFFSET $3
	`
	return s.list(ctx, countQuery, query, authorID, page)
}

// ListByTagName implements store.PostStore.ListByTagName
// An unknown tag counts zero posts, so the page is empty.
func (s *PostgresPostStore) ListByTagName(
	ctx context.Context,
	name string,
	page domain.PageRequest,
) (*domain.Page[*domain.Post], error) {
	page = page.Normalize()
	countQuery := `
		SELECT COUNT(*)
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE t.name = $1
	`
	query := `
		SELECT p.id, p.author_id, p.title, p.content, p.created_at, p.updated_at
		FROM posts p
		JOIN post_tags pt ON pt.post_id = p.id
		JOIN tags t ON t.id = pt.tag_id
		WHERE t.name = $1
		ORDER BY ` + postOrder(page.Sort) + `
		LIMIT $2 OFFSET $3
	`
	return s.list(ctx, countQuery, query, name, page)
}

func (s *PostgresPostStore) list(
	ctx context.Context,
	countQuery, query string,
	arg any,
	page domain.PageRequest,
) (*domain.Page[*domain.Post], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, arg).Scan(&total); err != nil {
		log.Error("failed to count posts", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	if total == 0 {
		return domain.EmptyPage[*domain.Post](page), nil
	}

	rows, err := s.db.QueryContext(ctx, query, arg, page.Limit, page.Offset)
	if err != nil {
		log.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	posts := make([]*domain.Post, 0, page.Limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			_ = rows.Close()
			log.Error("failed to scan post row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		posts = append(posts, post)
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		log.Error("error iterating post rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	// Hydration issues its own queries, so the page rows are closed first.
	for _, post := range posts {
		if err := s.hydrate(ctx, post); err != nil {
			return nil, err
		}
	}

	return domain.NewPage(posts, total, page), nil
}

// AddLike implements store.PostStore.AddLike
// Returns store.ErrPostNotFound if the post does not exist and
// store.ErrInvalidEntity if the user does not.
func (s *PostgresPostStore) AddLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO post_likes (post_id, user_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode &&
			pgErr.ConstraintName == postLikesPostFKey {
			return false, store.ErrPostNotFound
		}
		log.Error("failed to add like",
			slog.String("error", err.Error()),
			slog.String("post_id", postID.String()),
			slog.String("user_id", userID.String()))
		return false, MapError(err)
	}
	return changed(result)
}

// RemoveLike implements store.PostStore.RemoveLike
func (s *PostgresPostStore) RemoveLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to remove like",
			slog.String("error", err.Error()),
			slog.String("post_id", postID.String()),
			slog.String("user_id", userID.String()))
		return false, MapError(err)
	}
	return changed(result)
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var post domain.Post
	err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
