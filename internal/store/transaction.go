package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
// Backends without SQL transactions pass a nil tx.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// TxRunner runs a unit of work atomically. Services depend on it instead of
// *sql.DB so that every backend can supply its own transaction semantics.
type TxRunner interface {
	RunInTx(ctx context.Context, fn TxFn) error
}

// SQLTxRunner is a TxRunner over a database/sql connection pool.
type SQLTxRunner struct {
	db *sql.DB
}

// NewSQLTxRunner creates a TxRunner that opens transactions on db.
func NewSQLTxRunner(db *sql.DB) *SQLTxRunner {
	return &SQLTxRunner{db: db}
}

// RunInTx implements TxRunner.
func (r *SQLTxRunner) RunInTx(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, r.db, fn)
}

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
// Panics roll the transaction back and are re-raised.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			if txErr := tx.Rollback(); txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}

	log.Debug("transaction committed successfully")
	return nil
}
