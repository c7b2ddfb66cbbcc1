// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. UserService:
//   - Registration with username-then-email uniqueness checks
//   - Profile updates and login bookkeeping
//   - The follow graph, written as one relation row plus both users' counts
//     inside a single unit of work
//
// 2. PostService and CommentService:
//   - Post and comment lifecycle, tagging, likes and paged feeds
//   - Ownership hooks the delivery layer calls before mutating a resource
//
// 3. Error Handling:
//   - Store misses become *NotFoundError carrying the entity and ID
//   - Expected conditions are sentinel errors checked with errors.Is
//   - Unexpected failures are wrapped in *ServiceError
//
// Every mutation runs through a store.TxRunner so the same services work over
// PostgreSQL transactions and the in-memory backend.
package service
