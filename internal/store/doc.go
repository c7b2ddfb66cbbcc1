// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Two stores back the platform: the identity store (UserStore, FollowStore)
// and the content store (PostStore, TagStore, CommentStore).
package store
