// Package testdb provides helpers for tests that run against a real
// PostgreSQL database.
//
// Tests call GetTestDBWithT, which skips unless BLOG_TEST_DATABASE_URL (or
// DATABASE_URL) is set, migrates the schema to the latest version and
// registers cleanup. Each test then runs inside WithTx, whose transaction is
// always rolled back, so tests leave no rows behind and may run in parallel:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
