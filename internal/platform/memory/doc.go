// Package memory implements the store interfaces over process memory.
//
// It backs local runs without a database and the service property tests.
// Units of work run one at a time; a failing unit is rolled back by
// restoring a snapshot taken when it began. Reads outside a unit may observe
// the writes of one in progress.
package memory
