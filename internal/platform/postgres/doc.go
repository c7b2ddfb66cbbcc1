// Package postgres provides PostgreSQL implementations of the identity and
// content stores defined in internal/store. Queries run through store.DBTX so
// the same store serves a pool or a transaction, and driver errors are mapped
// to store sentinels by MapError. The schema ships as embedded goose
// migrations applied by Migrate.
package postgres
