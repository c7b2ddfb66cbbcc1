// Package domain contains the core business entities, value objects, and
// domain logic of the blogging platform: users, posts, comments, tags and
// the paging primitives used by feeds. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
