package memory

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

// PostStore implements store.PostStore in memory.
type PostStore struct {
	db *DB
}

// NewPostStore creates a PostStore over db.
func NewPostStore(db *DB) *PostStore {
	return &PostStore{db: db}
}

var _ store.PostStore = (*PostStore)(nil)

// Create implements store.PostStore.Create.
func (s *PostStore) Create(ctx context.Context, post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.posts[post.ID]; ok {
		return fmt.Errorf("%w: post id %s", store.ErrDuplicate, post.ID)
	}
	if _, ok := s.db.users[post.AuthorID]; !ok {
		return fmt.Errorf("%w: author %s does not exist", store.ErrInvalidEntity, post.AuthorID)
	}

	row := postRow{post: *post, tagIDs: make([]uuid.UUID, 0, len(post.Tags))}
	row.post.Author, row.post.Tags, row.post.LikedBy = nil, nil, nil
	for _, t := range post.Tags {
		if _, ok := s.db.tags[t.ID]; !ok {
			return fmt.Errorf("%w: tag %s does not exist", store.ErrInvalidEntity, t.Name)
		}
		if !slices.Contains(row.tagIDs, t.ID) {
			row.tagIDs = append(row.tagIDs, t.ID)
		}
	}
	s.db.posts[post.ID] = row
	return nil
}

// GetByID implements store.PostStore.GetByID.
func (s *PostStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	row, ok := s.db.posts[id]
	if !ok {
		return nil, store.ErrPostNotFound
	}
	return s.hydrate(row), nil
}

// hydrate must be called with mu held.
func (s *PostStore) hydrate(row postRow) *domain.Post {
	post := row.post
	post.Tags = make([]domain.Tag, 0, len(row.tagIDs))
	for _, id := range row.tagIDs {
		if t, ok := s.db.tags[id]; ok {
			post.Tags = append(post.Tags, t)
		}
	}
	slices.SortFunc(post.Tags, func(a, b domain.Tag) int {
		return strings.Compare(a.Name, b.Name)
	})
	post.LikedBy = domain.NewIDSet()
	for k := range s.db.likes {
		if k.a == post.ID {
			post.LikedBy.Add(k.b)
		}
	}
	return &post
}

// Update implements store.PostStore.Update.
func (s *PostStore) Update(ctx context.Context, post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row, ok := s.db.posts[post.ID]
	if !ok {
		return store.ErrPostNotFound
	}
	row.post.Title = post.Title
	row.post.Content = post.Content
	row.post.UpdatedAt = post.UpdatedAt
	s.db.posts[post.ID] = row
	return nil
}

// Delete implements store.PostStore.Delete.
// The post's comments and likes are removed with it.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.posts[id]; !ok {
		return store.ErrPostNotFound
	}
	delete(s.db.posts, id)
	for k := range s.db.likes {
		if k.a == id {
			delete(s.db.likes, k)
		}
	}
	for cid, c := range s.db.comments {
		if c.PostID == id {
			delete(s.db.comments, cid)
		}
	}
	return nil
}

// ListByAuthor implements store.PostStore.ListByAuthor.
func (s *PostStore) ListByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
	req domain.PageRequest,
) (*domain.Page[*domain.Post], error) {
	return s.list(req, func(row postRow) bool {
		return row.post.AuthorID == authorID
	}), nil
}

// ListByTagName implements store.PostStore.ListByTagName.
func (s *PostStore) ListByTagName(
	ctx context.Context,
	name string,
	req domain.PageRequest,
) (*domain.Page[*domain.Post], error) {
	tag, err := NewTagStore(s.db).GetByName(ctx, name)
	if err != nil {
		return domain.EmptyPage[*domain.Post](req.Normalize()), nil
	}
	return s.list(req, func(row postRow) bool {
		return slices.Contains(row.tagIDs, tag.ID)
	}), nil
}

func (s *PostStore) list(req domain.PageRequest, match func(postRow) bool) *domain.Page[*domain.Post] {
	req = req.Normalize()
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var posts []*domain.Post
	for _, row := range s.db.posts {
		if match(row) {
			posts = append(posts, s.hydrate(row))
		}
	}
	slices.SortFunc(posts, func(a, b *domain.Post) int {
		return compareBySort(req.Sort, a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return page(posts, req)
}

// AddLike implements store.PostStore.AddLike.
func (s *PostStore) AddLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.posts[postID]; !ok {
		return false, store.ErrPostNotFound
	}
	if _, ok := s.db.users[userID]; !ok {
		return false, fmt.Errorf("%w: user %s does not exist", store.ErrInvalidEntity, userID)
	}
	key := pairKey{postID, userID}
	if _, ok := s.db.likes[key]; ok {
		return false, nil
	}
	s.db.likes[key] = edge{seq: s.db.nextSeq(), createdAt: time.Now().UTC()}
	return true, nil
}

// RemoveLike implements store.PostStore.RemoveLike.
func (s *PostStore) RemoveLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	key := pairKey{postID, userID}
	if _, ok := s.db.likes[key]; !ok {
		return false, nil
	}
	delete(s.db.likes, key)
	return true, nil
}

// WithTx returns the store itself; units of work are managed by DB.RunInTx.
func (s *PostStore) WithTx(*sql.Tx) store.PostStore {
	return s
}

// TagStore implements store.TagStore in memory.
type TagStore struct {
	db *DB
}

// NewTagStore creates a TagStore over db.
func NewTagStore(db *DB) *TagStore {
	return &TagStore{db: db}
}

var _ store.TagStore = (*TagStore)(nil)

// GetByName implements store.TagStore.GetByName.
func (s *TagStore) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, t := range s.db.tags {
		if t.Name == name {
			return &t, nil
		}
	}
	return nil, store.ErrTagNotFound
}

// Create implements store.TagStore.Create.
func (s *TagStore) Create(ctx context.Context, tag *domain.Tag) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, t := range s.db.tags {
		if t.Name == tag.Name {
			return store.ErrTagExists
		}
	}
	s.db.tags[tag.ID] = *tag
	return nil
}

// WithTx returns the store itself; units of work are managed by DB.RunInTx.
func (s *TagStore) WithTx(*sql.Tx) store.TagStore {
	return s
}

// CommentStore implements store.CommentStore in memory.
type CommentStore struct {
	db *DB
}

// NewCommentStore creates a CommentStore over db.
func NewCommentStore(db *DB) *CommentStore {
	return &CommentStore{db: db}
}

var _ store.CommentStore = (*CommentStore)(nil)

// Create implements store.CommentStore.Create.
func (s *CommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.posts[comment.PostID]; !ok {
		return fmt.Errorf("%w: post %s does not exist", store.ErrInvalidEntity, comment.PostID)
	}
	if _, ok := s.db.users[comment.AuthorID]; !ok {
		return fmt.Errorf("%w: author %s does not exist", store.ErrInvalidEntity, comment.AuthorID)
	}
	s.db.comments[comment.ID] = *comment
	return nil
}

// GetByID implements store.CommentStore.GetByID.
func (s *CommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	c, ok := s.db.comments[id]
	if !ok {
		return nil, store.ErrCommentNotFound
	}
	return &c, nil
}

// Update implements store.CommentStore.Update.
func (s *CommentStore) Update(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c, ok := s.db.comments[comment.ID]
	if !ok {
		return store.ErrCommentNotFound
	}
	c.Content = comment.Content
	c.UpdatedAt = comment.UpdatedAt
	s.db.comments[comment.ID] = c
	return nil
}

// Delete implements store.CommentStore.Delete.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.comments[id]; !ok {
		return store.ErrCommentNotFound
	}
	delete(s.db.comments, id)
	return nil
}

// ListByPostNewestFirst implements store.CommentStore.ListByPostNewestFirst.
func (s *CommentStore) ListByPostNewestFirst(
	ctx context.Context,
	postID uuid.UUID,
	req domain.PageRequest,
) (*domain.Page[*domain.Comment], error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var comments []*domain.Comment
	for _, c := range s.db.comments {
		if c.PostID == postID {
			comments = append(comments, &c)
		}
	}
	slices.SortFunc(comments, func(a, b *domain.Comment) int {
		return compareNewest(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return page(comments, req), nil
}

// WithTx returns the store itself; units of work are managed by DB.RunInTx.
func (s *CommentStore) WithTx(*sql.Tx) store.CommentStore {
	return s
}
