package postgres_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/postgres"
	"github.com/phrazzld/blogsphere-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postRowColumns = []string{"id", "author_id", "title", "content", "created_at", "updated_at"}

func testPost(authorID uuid.UUID, tags ...domain.Tag) *domain.Post {
	post, err := domain.NewPost(authorID, domain.PostDraft{Title: "Hello", Content: "World"}, tags, testTime)
	if err != nil {
		panic(err)
	}
	return post
}

func expectHydrate(mock sqlmock.Sqlmock, postID uuid.UUID, tags []domain.Tag, likers ...uuid.UUID) {
	tagRows := sqlmock.NewRows([]string{"id", "name"})
	for _, tag := range tags {
		tagRows.AddRow(tag.ID.String(), tag.Name)
	}
	likeRows := sqlmock.NewRows([]string{"user_id"})
	for _, id := range likers {
		likeRows.AddRow(id.String())
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM post_tags pt")).WithArgs(postID).WillReturnRows(tagRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM post_likes")).WithArgs(postID).WillReturnRows(likeRows)
}

func TestPostgresPostStore_Create(t *testing.T) {
	ctx := context.Background()
	author := uuid.New()
	golang := domain.Tag{ID: uuid.New(), Name: "golang"}
	databases := domain.Tag{ID: uuid.New(), Name: "databases"}

	t.Run("inserts post and tag links", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPostStore(db, nil)
		post := testPost(author, golang, databases)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO posts")).
			WithArgs(post.ID, author, "Hello", "World", testTime, testTime).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO post_tags")).
			WithArgs(post.ID, golang.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO post_tags")).
			WithArgs(post.ID, databases.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(ctx, post))
	})

	t.Run("unknown author", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPostStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO posts")).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "posts_author_id_fkey"})

		assert.ErrorIs(t, s.Create(ctx, testPost(author)), store.ErrInvalidEntity)
	})

	t.Run("invalid post never reaches the database", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := postgres.NewPostgresPostStore(db, nil)
		post := testPost(author)
		post.Title = ""

		assert.ErrorIs(t, s.Create(ctx, post), domain.ErrValidation)
	})
}

func TestPostgresPostStore_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("hydrates tags and likes", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPostStore(db, nil)
		post := testPost(uuid.New())
		tag := domain.Tag{ID: uuid.New(), Name: "golang"}
		liker := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM posts p")).
			WithArgs(post.ID).
			WillReturnRows(sqlmock.NewRows(postRowColumns).
				AddRow(post.ID.String(), post.AuthorID.String(), "Hello", "World", testTime, testTime))
		expectHydrate(mock, post.ID, []domain.Tag{tag}, liker)

		got, err := s.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.Tag{tag}, got.Tags)
		assert.True(t, got.LikedBy.Has(liker))
		assert.Equal(t, 1, got.LikeCount())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPostStore(db, nil)
		id := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM posts p")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(postRowColumns))

		_, err := s.GetByID(ctx, id)
		assert.ErrorIs(t, err, store.ErrPostNotFound)
	})
}

func TestPostgresPostStore_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	post := testPost(uuid.New())

	db, mock := newMockDB(t)
	s := postgres.NewPostgresPostStore(db, nil)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET title = $1")).
		WithArgs("Hello", "World", testTime, post.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM posts")).
		WithArgs(post.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM posts")).
		WithArgs(post.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Update(ctx, post))
	require.NoError(t, s.Delete(ctx, post.ID))
	assert.ErrorIs(t, s.Delete(ctx, post.ID), store.ErrPostNotFound)
}

func TestPostgresPostStore_ListByAuthor(t *testing.T) {
	ctx := context.Background()
	author := uuid.New()
	newer, older := testPost(author), testPost(author)

	t.Run("newest first by default", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPostStore(db, nil)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts WHERE author_id = $1")).
			WithArgs(author).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.created_at DESC, p.id DESC")).
			WithArgs(author, 20, 0).
			WillReturnRows(sqlmock.NewRows(postRowColumns).
				AddRow(newer.ID.String(), author.String(), "Hello", "World", testTime, testTime).
				AddRow(older.ID.String(), author.String(), "Hello", "World", testTime, testTime))
		expectHydrate(mock, newer.ID, nil)
		expectHydrate(mock, older.ID, nil)

		page, err := s.ListByAuthor(ctx, author, domain.PageRequest{})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, newer.ID, page.Items[0].ID)
		assert.Empty(t, page.Items[0].Tags)
	})

	t.Run("oldest first on request", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPostStore(db, nil)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM posts")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.created_at ASC, p.id ASC")).
			WithArgs(author, 20, 0).
			WillReturnRows(sqlmock.NewRows(postRowColumns).
				AddRow(older.ID.String(), author.String(), "Hello", "World", testTime, testTime))
		expectHydrate(mock, older.ID, nil)

		page, err := s.ListByAuthor(ctx, author, domain.PageRequest{Sort: domain.SortOldest})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
	})
}

func TestPostgresPostStore_ListByTagName(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresPostStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.name = $1")).
		WithArgs("nosuchtag").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	page, err := s.ListByTagName(context.Background(), "nosuchtag", domain.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
}

func TestPostgresPostStore_Likes(t *testing.T) {
	ctx := context.Background()
	postID, userID := uuid.New(), uuid.New()

	t.Run("add and repeat", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPostStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO post_likes")).
			WithArgs(postID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO post_likes")).
			WithArgs(postID, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		added, err := s.AddLike(ctx, postID, userID)
		require.NoError(t, err)
		assert.True(t, added)

		added, err = s.AddLike(ctx, postID, userID)
		require.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("missing post", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPostStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO post_likes")).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "post_likes_post_id_fkey"})

		_, err := s.AddLike(ctx, postID, userID)
		assert.ErrorIs(t, err, store.ErrPostNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresPostStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM post_likes")).
			WithArgs(postID, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		removed, err := s.RemoveLike(ctx, postID, userID)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestPostgresTagStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create then conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresTagStore(db, nil)
		tag := &domain.Tag{ID: uuid.New(), Name: "golang"}

		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (name) DO NOTHING")).
			WithArgs(tag.ID, "golang").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tags")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, s.Create(ctx, tag))
		assert.ErrorIs(t, s.Create(ctx, tag), store.ErrTagExists)
	})

	t.Run("get by name", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresTagStore(db, nil)
		id := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM tags WHERE name = $1")).
			WithArgs("golang").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(id.String(), "golang"))
		mock.ExpectQuery(regexp.QuoteMeta("FROM tags")).
			WithArgs("rust").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		tag, err := s.GetByName(ctx, "golang")
		require.NoError(t, err)
		assert.Equal(t, id, tag.ID)

		_, err = s.GetByName(ctx, "rust")
		assert.ErrorIs(t, err, store.ErrTagNotFound)
	})
}

func TestPostgresCommentStore(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	commentCols := []string{"id", "post_id", "author_id", "content", "created_at", "updated_at"}

	t.Run("create and update", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCommentStore(db, nil)
		c, err := domain.NewComment(postID, uuid.New(), "nice post", testTime)
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO comments")).
			WithArgs(c.ID, postID, c.AuthorID, "nice post", testTime, testTime).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE comments")).
			WithArgs("nice post", testTime, c.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, s.Create(ctx, c))
		assert.ErrorIs(t, s.Update(ctx, c), store.ErrCommentNotFound)
	})

	t.Run("newest first", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCommentStore(db, nil)
		first, second := uuid.New(), uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM comments")).
			WithArgs(postID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
			WithArgs(postID, 20, 0).
			WillReturnRows(sqlmock.NewRows(commentCols).
				AddRow(second.String(), postID.String(), uuid.NewString(), "later", testTime, testTime).
				AddRow(first.String(), postID.String(), uuid.NewString(), "earlier", testTime, testTime))

		page, err := s.ListByPostNewestFirst(ctx, postID, domain.PageRequest{Sort: domain.SortOldest})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, second, page.Items[0].ID)
	})

	t.Run("delete missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresCommentStore(db, nil)
		id := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM comments")).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(ctx, id), store.ErrCommentNotFound)
	})
}
