package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds connection checks and schema setup.
const TestTimeout = 30 * time.Second

// urlEnvVars are checked in order by GetTestDatabaseURL.
var urlEnvVars = []string{"BLOG_TEST_DATABASE_URL", "DATABASE_URL"}

// migrateMu guards schema setup; goose keeps package-level state.
var migrateMu sync.Mutex

// GetTestDatabaseURL returns the first non-empty database URL variable.
func GetTestDatabaseURL() string {
	for _, name := range urlEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// GetTestDBWithT opens the test database, applies every migration and
// closes the pool when the test ends. It skips t when no database is
// configured.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("BLOG_TEST_DATABASE_URL or DATABASE_URL not set - skipping integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Database ping failed")

	log, _ := logger.NewTestLogger(t)
	migrateMu.Lock()
	err = postgres.Migrate(ctx, db, postgres.MigrateUp, log)
	migrateMu.Unlock()
	require.NoError(t, err, "Failed to run migrations")

	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "Failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
