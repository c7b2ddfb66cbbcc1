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

func TestPostgresFollowStore_AddRemove(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	t.Run("add reports a new row", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFollowStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (follower_id, followee_id) DO NOTHING")).
			WithArgs(a, b).
			WillReturnResult(sqlmock.NewResult(0, 1))

		added, err := s.Add(ctx, a, b)
		require.NoError(t, err)
		assert.True(t, added)
	})

	t.Run("repeated add changes nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFollowStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_follows")).
			WithArgs(a, b).
			WillReturnResult(sqlmock.NewResult(0, 0))

		added, err := s.Add(ctx, a, b)
		require.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("add for a missing user", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFollowStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_follows")).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "user_follows_followee_id_fkey"})

		_, err := s.Add(ctx, a, b)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("remove", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFollowStore(db, nil)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_follows")).
			WithArgs(a, b).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_follows")).
			WithArgs(a, b).
			WillReturnResult(sqlmock.NewResult(0, 0))

		removed, err := s.Remove(ctx, a, b)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = s.Remove(ctx, a, b)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestPostgresFollowStore_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresFollowStore(db, nil)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM user_follows")).
		WithArgs(a, b).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	found, err := s.Exists(context.Background(), a, b)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestPostgresFollowStore_ListFollowers(t *testing.T) {
	ctx := context.Background()
	target := uuid.New()

	t.Run("joins follower side most recent first", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFollowStore(db, nil)
		bob, carol := testUser("bob"), testUser("carol")

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM user_follows WHERE followee_id = $1")).
			WithArgs(target).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(regexp.QuoteMeta("JOIN users u ON u.id = f.follower_id")).
			WithArgs(target, 20, 0).
			WillReturnRows(userRows(carol, bob))

		page, err := s.ListFollowers(ctx, target, domain.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "carol", page.Items[0].Username)
		assert.False(t, page.HasMore())
	})

	t.Run("no followers skips the page query", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := postgres.NewPostgresFollowStore(db, nil)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM user_follows")).
			WithArgs(target).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		page, err := s.ListFollowers(ctx, target, domain.PageRequest{Limit: 5})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 5, page.Limit)
	})
}

func TestPostgresFollowStore_ListFollowing(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresFollowStore(db, nil)
	me := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE follower_id = $1")).
		WithArgs(me).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("JOIN users u ON u.id = f.followee_id")).
		WithArgs(me, 100, 2).
		WillReturnRows(userRows(testUser("dave")))

	page, err := s.ListFollowing(context.Background(), me, domain.PageRequest{Offset: 2, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 100, page.Limit)
	require.Len(t, page.Items, 1)
	assert.False(t, page.HasMore())
}
