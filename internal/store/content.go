package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
)

// PostStore defines the interface for post persistence.
type PostStore interface {
	// Create saves a new post together with its tag links.
	// Every tag must already exist.
	Create(ctx context.Context, post *domain.Post) error

	// GetByID retrieves a post with its tags and likes.
	// Returns ErrPostNotFound if the post does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)

	// Update persists title, content and updated_at.
	// Returns ErrPostNotFound if the post does not exist.
	Update(ctx context.Context, post *domain.Post) error

	// Delete removes a post; its comments, likes and tag links cascade.
	// Returns ErrPostNotFound if the post does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByAuthor pages an author's posts ordered by creation time, ID as tie-break.
	ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) (*domain.Page[*domain.Post], error)

	// ListByTagName pages the posts carrying the named tag. An unknown tag
	// yields an empty page.
	ListByTagName(ctx context.Context, name string, page domain.PageRequest) (*domain.Page[*domain.Post], error)

	// AddLike records that userID likes postID. Reports false if it already did.
	AddLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)

	// RemoveLike deletes the like. Reports false if there was none.
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)

	// WithTx returns a PostStore bound to tx.
	WithTx(tx *sql.Tx) PostStore
}

// TagStore defines the interface for tag persistence.
type TagStore interface {
	// GetByName retrieves a tag by its normalized name.
	// Returns ErrTagNotFound if no such tag exists.
	GetByName(ctx context.Context, name string) (*domain.Tag, error)

	// Create saves a new tag. Returns ErrTagExists if the name is taken.
	Create(ctx context.Context, tag *domain.Tag) error

	// WithTx returns a TagStore bound to tx.
	WithTx(tx *sql.Tx) TagStore
}

// CommentStore defines the interface for comment persistence.
type CommentStore interface {
	// Create saves a new comment.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment.
	// Returns ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)

	// Update persists content and updated_at.
	// Returns ErrCommentNotFound if the comment does not exist.
	Update(ctx context.Context, comment *domain.Comment) error

	// Delete removes a comment.
	// Returns ErrCommentNotFound if the comment does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByPostNewestFirst pages a post's comments by created_at descending,
	// ID descending as tie-break. The page's Sort field is ignored.
	ListByPostNewestFirst(ctx context.Context, postID uuid.UUID, page domain.PageRequest) (*domain.Page[*domain.Comment], error)

	// WithTx returns a CommentStore bound to tx.
	WithTx(tx *sql.Tx) CommentStore
}
