package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

// CommentService provides comment lifecycle and listing operations.
type CommentService interface {
	// CreateComment adds a comment by authorID to postID. Both must exist.
	CreateComment(ctx context.Context, postID, authorID uuid.UUID, content string) (*domain.Comment, error)

	// UpdateComment applies the non-nil fields of patch. The parent post never changes.
	UpdateComment(ctx context.Context, commentID uuid.UUID, patch domain.CommentPatch) (*domain.Comment, error)

	// DeleteComment removes a comment.
	DeleteComment(ctx context.Context, commentID uuid.UUID) error

	// GetCommentsByPost pages a post's comments newest first.
	// A missing post is a NotFoundError and no comment query is made.
	GetCommentsByPost(ctx context.Context, postID uuid.UUID, page domain.PageRequest) (*domain.Page[*domain.Comment], error)

	// AuthorizeCommentOwner returns ErrUnauthorized unless callerID wrote the comment.
	AuthorizeCommentOwner(ctx context.Context, commentID, callerID uuid.UUID) error
}

// commentServiceImpl implements the CommentService interface
type commentServiceImpl struct {
	comments store.CommentStore
	posts    store.PostStore
	users    store.UserStore
	tx       store.TxRunner
	logger   *slog.Logger
	now      func() time.Time
}

// NewCommentService creates a new CommentService.
// It returns an error if any of the required dependencies are nil.
func NewCommentService(
	comments store.CommentStore,
	posts store.PostStore,
	users store.UserStore,
	tx store.TxRunner,
	logger *slog.Logger,
	opts ...Option,
) (CommentService, error) {
	if comments == nil {
		return nil, domain.NewValidationError("comments", "cannot be nil", domain.ErrValidation)
	}
	if posts == nil {
		return nil, domain.NewValidationError("posts", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := buildOptions(opts)
	return &commentServiceImpl{
		comments: comments,
		posts:    posts,
		users:    users,
		tx:       tx,
		logger:   logger.With(slog.String("component", "comment_service")),
		now:      o.now,
	}, nil
}

// CreateComment implements CommentService.CreateComment.
func (s *commentServiceImpl) CreateComment(
	ctx context.Context,
	postID, authorID uuid.UUID,
	content string,
) (*domain.Comment, error) {
	const op = "create comment"
	log := logger.FromContextOrDefault(ctx, s.logger)

	comment, err := domain.NewComment(postID, authorID, content, s.now())
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.posts.WithTx(tx).GetByID(ctx, postID); err != nil {
			return lookupError(op, EntityPost, postID.String(), err)
		}
		if _, err := s.users.WithTx(tx).GetByID(ctx, authorID); err != nil {
			return lookupError(op, EntityUser, authorID.String(), err)
		}
		if err := s.comments.WithTx(tx).Create(ctx, comment); err != nil {
			return NewServiceError(op, "failed to save comment", err)
		}
		return nil
	})
	if err != nil {
		log.Debug("failed to create comment",
			slog.String("post_id", postID.String()),
			slog.String("error", err.Error()))
		return nil, txError(op, err)
	}

	log.Debug("comment created",
		slog.String("comment_id", comment.ID.String()),
		slog.String("post_id", postID.String()))
	return comment, nil
}

// UpdateComment implements CommentService.UpdateComment.
func (s *commentServiceImpl) UpdateComment(
	ctx context.Context,
	commentID uuid.UUID,
	patch domain.CommentPatch,
) (*domain.Comment, error) {
	const op = "update comment"

	var updated *domain.Comment
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		comments := s.comments.WithTx(tx)

		comment, err := comments.GetByID(ctx, commentID)
		if err != nil {
			return lookupError(op, EntityComment, commentID.String(), err)
		}
		if patch.Content == nil {
			updated = comment
			return nil
		}

		if err := patch.Apply(comment, s.now()); err != nil {
			return err
		}
		if err := comments.Update(ctx, comment); err != nil {
			return lookupError(op, EntityComment, commentID.String(), err)
		}
		updated = comment
		return nil
	})
	if err != nil {
		return nil, txError(op, err)
	}
	return updated, nil
}

// DeleteComment implements CommentService.DeleteComment.
func (s *commentServiceImpl) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	const op = "delete comment"

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.comments.WithTx(tx).Delete(ctx, commentID); err != nil {
			return lookupError(op, EntityComment, commentID.String(), err)
		}
		return nil
	})
	if err != nil {
		return txError(op, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("comment deleted",
		slog.String("comment_id", commentID.String()))
	return nil
}

// GetCommentsByPost implements CommentService.GetCommentsByPost.
func (s *commentServiceImpl) GetCommentsByPost(
	ctx context.Context,
	postID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.Comment], error) {
	const op = "get comments by post"

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, lookupError(op, EntityPost, postID.String(), err)
	}

	result, err := s.comments.ListByPostNewestFirst(ctx, postID, page.Normalize())
	if err != nil {
		return nil, NewServiceError(op, "failed to list comments", err)
	}
	return result, nil
}

// AuthorizeCommentOwner implements CommentService.AuthorizeCommentOwner.
func (s *commentServiceImpl) AuthorizeCommentOwner(ctx context.Context, commentID, callerID uuid.UUID) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return lookupError("authorize comment owner", EntityComment, commentID.String(), err)
	}
	if comment.AuthorID != callerID {
		return ErrUnauthorized
	}
	return nil
}
