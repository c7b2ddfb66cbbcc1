package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/blogsphere-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		wantIs error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), store.ErrNotFound},
		{
			"username conflict",
			&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersUsernameKey},
			store.ErrUsernameExists,
		},
		{
			"email conflict",
			&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersEmailKey},
			store.ErrEmailExists,
		},
		{
			"tag conflict",
			&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: tagsNameKey},
			store.ErrTagExists,
		},
		{
			"unknown unique constraint",
			&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "other_key"},
			store.ErrDuplicate,
		},
		{
			"foreign key",
			&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "posts_author_id_fkey"},
			store.ErrInvalidEntity,
		},
		{
			"check",
			&pgconn.PgError{Code: checkViolationCode, ConstraintName: "users_follow_counts_check"},
			store.ErrInvalidEntity,
		},
		{
			"not null",
			&pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.wantIs)
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("unmapped error passes through", func(t *testing.T) {
		orig := errors.New("connection reset")
		assert.Same(t, orig, MapError(orig))
	})

	t.Run("email conflict is not a username conflict", func(t *testing.T) {
		mapped := MapError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersEmailKey})
		assert.False(t, errors.Is(mapped, store.ErrUsernameExists))
	})
}

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrPostNotFound))
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrPostNotFound), store.ErrPostNotFound)
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), nil), store.ErrNotFound)
	assert.Error(t, CheckRowsAffected(nil, nil))
	assert.Error(t, CheckRowsAffected(sqlmock.NewErrorResult(errors.New("driver")), nil))
}

func TestViolationPredicates(t *testing.T) {
	unique := fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolationCode})
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(errors.New("plain")))
}
