package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

// PostService provides post lifecycle, tagging, like and feed operations.
type PostService interface {
	// CreatePost creates a post by authorID. Tags are resolved by normalized
	// name and created on first reference.
	CreatePost(ctx context.Context, authorID uuid.UUID, draft domain.PostDraft, tagNames []string) (*domain.Post, error)

	// UpdatePost applies the non-nil fields of patch. Author and ID never change.
	UpdatePost(ctx context.Context, postID uuid.UUID, patch domain.PostPatch) (*domain.Post, error)

	// DeletePost removes a post together with its comments and likes.
	DeletePost(ctx context.Context, postID uuid.UUID) error

	// LikePost adds userID to the post's likes. Repeating it is a no-op.
	LikePost(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error)

	// UnlikePost removes userID from the post's likes. Repeating it is a no-op.
	UnlikePost(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error)

	// GetPost retrieves a post with its tags and likes.
	GetPost(ctx context.Context, postID uuid.UUID) (*domain.Post, error)

	// GetPostsByAuthor pages an author's posts. The author must exist.
	GetPostsByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) (*domain.Page[*domain.Post], error)

	// GetPostsByTag pages the posts carrying a tag. An unknown tag yields an empty page.
	GetPostsByTag(ctx context.Context, tagName string, page domain.PageRequest) (*domain.Page[*domain.Post], error)

	// AuthorizePostOwner returns ErrUnauthorized unless callerID wrote the post.
	AuthorizePostOwner(ctx context.Context, postID, callerID uuid.UUID) error
}

// postServiceImpl implements the PostService interface
type postServiceImpl struct {
	posts  store.PostStore
	tags   store.TagStore
	users  store.UserStore
	tx     store.TxRunner
	logger *slog.Logger
	now    func() time.Time
}

// NewPostService creates a new PostService.
// It returns an error if any of the required dependencies are nil.
func NewPostService(
	posts store.PostStore,
	tags store.TagStore,
	users store.UserStore,
	tx store.TxRunner,
	logger *slog.Logger,
	opts ...Option,
) (PostService, error) {
	if posts == nil {
		return nil, domain.NewValidationError("posts", "cannot be nil", domain.ErrValidation)
	}
	if tags == nil {
		return nil, domain.NewValidationError("tags", "cannot be nil", domain.ErrValidation)
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
	return &postServiceImpl{
		posts:  posts,
		tags:   tags,
		users:  users,
		tx:     tx,
		logger: logger.With(slog.String("component", "post_service")),
		now:    o.now,
	}, nil
}

// CreatePost implements PostService.CreatePost.
func (s *postServiceImpl) CreatePost(
	ctx context.Context,
	authorID uuid.UUID,
	draft domain.PostDraft,
	tagNames []string,
) (*domain.Post, error) {
	const op = "create post"
	log := logger.FromContextOrDefault(ctx, s.logger)

	post, err := domain.NewPost(authorID, draft, nil, s.now())
	if err != nil {
		return nil, err
	}
	names := domain.NormalizeTagNames(tagNames)
	for _, name := range names {
		if _, err := domain.NewTag(name); err != nil {
			return nil, err
		}
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		tags := s.tags.WithTx(tx)
		posts := s.posts.WithTx(tx)

		author, err := users.GetByID(ctx, authorID)
		if err != nil {
			return lookupError(op, EntityUser, authorID.String(), err)
		}

		resolved := make([]domain.Tag, 0, len(names))
		for _, name := range names {
			tag, err := resolveTag(ctx, tags, name)
			if err != nil {
				return NewServiceError(op, "failed to resolve tag "+name, err)
			}
			resolved = append(resolved, *tag)
		}
		post.Tags = resolved

		if err := posts.Create(ctx, post); err != nil {
			return NewServiceError(op, "failed to save post", err)
		}
		post.Author = author
		return nil
	})
	if err != nil {
		log.Error("failed to create post",
			slog.String("author_id", authorID.String()),
			slog.String("error", err.Error()))
		return nil, txError(op, err)
	}

	log.Info("post created",
		slog.String("post_id", post.ID.String()),
		slog.String("author_id", authorID.String()),
		slog.Int("tag_count", len(post.Tags)))
	return post, nil
}

// resolveTag returns the tag called name, creating it on first reference.
// A concurrent creator winning the insert is resolved by reading its row.
func resolveTag(ctx context.Context, tags store.TagStore, name string) (*domain.Tag, error) {
	tag, err := tags.GetByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, store.ErrTagNotFound) {
		return nil, err
	}

	tag, err = domain.NewTag(name)
	if err != nil {
		return nil, err
	}
	if err := tags.Create(ctx, tag); err != nil {
		if errors.Is(err, store.ErrTagExists) {
			return tags.GetByName(ctx, name)
		}
		return nil, err
	}
	return tag, nil
}

// UpdatePost implements PostService.UpdatePost.
func (s *postServiceImpl) UpdatePost(
	ctx context.Context,
	postID uuid.UUID,
	patch domain.PostPatch,
) (*domain.Post, error) {
	const op = "update post"
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Post
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		posts := s.posts.WithTx(tx)

		post, err := posts.GetByID(ctx, postID)
		if err != nil {
			return lookupError(op, EntityPost, postID.String(), err)
		}
		if patch.IsEmpty() {
			updated = post
			return nil
		}

		if err := patch.Apply(post, s.now()); err != nil {
			return err
		}
		if err := posts.Update(ctx, post); err != nil {
			return lookupError(op, EntityPost, postID.String(), err)
		}
		updated = post
		return nil
	})
	if err != nil {
		log.Debug("failed to update post",
			slog.String("post_id", postID.String()),
			slog.String("error", err.Error()))
		return nil, txError(op, err)
	}

	log.Debug("post updated", slog.String("post_id", postID.String()))
	return updated, nil
}

// DeletePost implements PostService.DeletePost.
func (s *postServiceImpl) DeletePost(ctx context.Context, postID uuid.UUID) error {
	const op = "delete post"
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.posts.WithTx(tx).Delete(ctx, postID); err != nil {
			return lookupError(op, EntityPost, postID.String(), err)
		}
		return nil
	})
	if err != nil {
		log.Debug("failed to delete post",
			slog.String("post_id", postID.String()),
			slog.String("error", err.Error()))
		return txError(op, err)
	}

	log.Info("post deleted", slog.String("post_id", postID.String()))
	return nil
}

// LikePost implements PostService.LikePost.
func (s *postServiceImpl) LikePost(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error) {
	return s.writeLike(ctx, "like post", postID, userID, true)
}

// UnlikePost implements PostService.UnlikePost.
func (s *postServiceImpl) UnlikePost(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error) {
	return s.writeLike(ctx, "unlike post", postID, userID, false)
}

func (s *postServiceImpl) writeLike(
	ctx context.Context,
	op string,
	postID, userID uuid.UUID,
	like bool,
) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("post_id", postID.String()),
		slog.String("user_id", userID.String()),
	)

	var result *domain.Post
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		posts := s.posts.WithTx(tx)

		post, err := posts.GetByID(ctx, postID)
		if err != nil {
			return lookupError(op, EntityPost, postID.String(), err)
		}
		if _, err := s.users.WithTx(tx).GetByID(ctx, userID); err != nil {
			return lookupError(op, EntityUser, userID.String(), err)
		}
		if post.LikedBy == nil {
			post.LikedBy = domain.NewIDSet()
		}

		if like {
			if _, err := posts.AddLike(ctx, postID, userID); err != nil {
				return NewServiceError(op, "failed to write like", err)
			}
			post.LikedBy.Add(userID)
		} else {
			if _, err := posts.RemoveLike(ctx, postID, userID); err != nil {
				return NewServiceError(op, "failed to remove like", err)
			}
			post.LikedBy.Remove(userID)
		}
		result = post
		return nil
	})
	if err != nil {
		log.Debug("like write failed", slog.String("error", err.Error()))
		return nil, txError(op, err)
	}

	log.Debug("like updated",
		slog.Bool("like", like),
		slog.Int("like_count", result.LikeCount()))
	return result, nil
}

// GetPost implements PostService.GetPost.
func (s *postServiceImpl) GetPost(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, lookupError("get post", EntityPost, postID.String(), err)
	}
	return post, nil
}

// GetPostsByAuthor implements PostService.GetPostsByAuthor.
func (s *postServiceImpl) GetPostsByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.Post], error) {
	const op = "get posts by author"

	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return nil, lookupError(op, EntityUser, authorID.String(), err)
	}

	result, err := s.posts.ListByAuthor(ctx, authorID, page.Normalize())
	if err != nil {
		return nil, NewServiceError(op, "failed to list posts", err)
	}
	return result, nil
}

// GetPostsByTag implements PostService.GetPostsByTag.
func (s *postServiceImpl) GetPostsByTag(
	ctx context.Context,
	tagName string,
	page domain.PageRequest,
) (*domain.Page[*domain.Post], error) {
	page = page.Normalize()
	name := domain.NormalizeTagName(tagName)
	if name == "" {
		return domain.EmptyPage[*domain.Post](page), nil
	}

	result, err := s.posts.ListByTagName(ctx, name, page)
	if err != nil {
		return nil, NewServiceError("get posts by tag", "failed to list posts", err)
	}
	return result, nil
}

// AuthorizePostOwner implements PostService.AuthorizePostOwner.
func (s *postServiceImpl) AuthorizePostOwner(ctx context.Context, postID, callerID uuid.UUID) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return lookupError("authorize post owner", EntityPost, postID.String(), err)
	}
	if post.AuthorID != callerID {
		logger.FromContextOrDefault(ctx, s.logger).Debug("caller does not own post",
			slog.String("post_id", postID.String()),
			slog.String("caller_id", callerID.String()))
		return ErrUnauthorized
	}
	return nil
}
