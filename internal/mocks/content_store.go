package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// PostStore is a mock of store.PostStore for use with testify/mock.
type PostStore struct {
	mock.Mock
}

var _ store.PostStore = (*PostStore)(nil)

// Create is a mock implementation of store.PostStore.Create
func (m *PostStore) Create(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

// GetByID is a mock implementation of store.PostStore.GetByID
func (m *PostStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	args := m.Called(ctx, id)
	if post, ok := args.Get(0).(*domain.Post); ok {
		return post, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.PostStore.Update
func (m *PostStore) Update(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

// Delete is a mock implementation of store.PostStore.Delete
func (m *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ListByAuthor is a mock implementation of store.PostStore.ListByAuthor
func (m *PostStore) ListByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.Post], error) {
	args := m.Called(ctx, authorID, page)
	if p, ok := args.Get(0).(*domain.Page[*domain.Post]); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByTagName is a mock implementation of store.PostStore.ListByTagName
func (m *PostStore) ListByTagName(
	ctx context.Context,
	name string,
	page domain.PageRequest,
) (*domain.Page[*domain.Post], error) {
	args := m.Called(ctx, name, page)
	if p, ok := args.Get(0).(*domain.Page[*domain.Post]); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// AddLike is a mock implementation of store.PostStore.AddLike
func (m *PostStore) AddLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

// RemoveLike is a mock implementation of store.PostStore.RemoveLike
func (m *PostStore) RemoveLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

// WithTx returns the mock itself.
func (m *PostStore) WithTx(*sql.Tx) store.PostStore {
	return m
}

// TagStore is a mock of store.TagStore for use with testify/mock.
type TagStore struct {
	mock.Mock
}

var _ store.TagStore = (*TagStore)(nil)

// GetByName is a mock implementation of store.TagStore.GetByName
func (m *TagStore) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	args := m.Called(ctx, name)
	if tag, ok := args.Get(0).(*domain.Tag); ok {
		return tag, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.TagStore.Create
func (m *TagStore) Create(ctx context.Context, tag *domain.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

// WithTx returns the mock itself.
func (m *TagStore) WithTx(*sql.Tx) store.TagStore {
	return m
}

// CommentStore is a mock of store.CommentStore for use with testify/mock.
type CommentStore struct {
	mock.Mock
}

var _ store.CommentStore = (*CommentStore)(nil)

// Create is a mock implementation of store.CommentStore.Create
func (m *CommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

// GetByID is a mock implementation of store.CommentStore.GetByID
func (m *CommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*domain.Comment); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.CommentStore.Update
func (m *CommentStore) Update(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

// Delete is a mock implementation of store.CommentStore.Delete
func (m *CommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ListByPostNewestFirst is a mock implementation of store.CommentStore.ListByPostNewestFirst
func (m *CommentStore) ListByPostNewestFirst(
	ctx context.Context,
	postID uuid.UUID,
	page domain.PageRequest,
) (*domain.Page[*domain.Comment], error) {
	args := m.Called(ctx, postID, page)
	if p, ok := args.Get(0).(*domain.Page[*domain.Comment]); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx returns the mock itself.
func (m *CommentStore) WithTx(*sql.Tx) store.CommentStore {
	return m
}
