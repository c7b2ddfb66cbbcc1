package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/blogsphere-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers use errors.Is to check for them; the API layer maps each to an
// HTTP status.
var (
	// ErrDuplicateUsername indicates registration with a username already in use.
	// API layer should map this to HTTP 409 Conflict.
	ErrDuplicateUsername = errors.New("username is already taken")

	// ErrDuplicateEmail indicates registration with an email already in use.
	// Only reported when the username is free.
	// API layer should map this to HTTP 409 Conflict.
	ErrDuplicateEmail = errors.New("email is already registered")

	// ErrSelfFollowNotAllowed indicates a user tried to follow or unfollow itself.
	// API layer should map this to HTTP 400 Bad Request.
	ErrSelfFollowNotAllowed = errors.New("users cannot follow themselves")

	// ErrInconsistentGraphWrite indicates that one side of a follow mutation
	// was written but the other could not be. The unit of work is rolled back.
	// API layer should map this to HTTP 500 Internal Server Error.
	ErrInconsistentGraphWrite = errors.New("follow graph write was only partially applied")

	// ErrUnauthorized indicates the caller does not own the resource.
	// API layer should map this to HTTP 403 Forbidden.
	ErrUnauthorized = errors.New("resource is owned by another user")
)

// Entity names carried by NotFoundError.
const (
	EntityUser    = "user"
	EntityPost    = "post"
	EntityComment = "comment"
)

// NotFoundError reports a lookup miss on a required entity.
// It unwraps to the store's entity-specific not-found sentinel.
type NotFoundError struct {
	Entity string
	ID     string
	Err    error
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a NotFoundError for entity. A nil err defaults to
// the store sentinel matching entity.
func NewNotFoundError(entity, id string, err error) *NotFoundError {
	if err == nil {
		err = notFoundSentinel(entity)
	}
	return &NotFoundError{Entity: entity, ID: id, Err: err}
}

func notFoundSentinel(entity string) error {
	switch entity {
	case EntityUser:
		return store.ErrUserNotFound
	case EntityPost:
		return store.ErrPostNotFound
	case EntityComment:
		return store.ErrCommentNotFound
	default:
		return store.ErrNotFound
	}
}

// ServiceError wraps an unexpected failure with the operation that hit it.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// lookupError converts a store lookup failure into a NotFoundError on a miss
// and a ServiceError otherwise.
func lookupError(operation, entity, id string, err error) error {
	if store.IsNotFoundError(err) {
		return NewNotFoundError(entity, id, err)
	}
	return NewServiceError(operation, "failed to access "+entity, err)
}

// txError wraps begin and commit failures. Errors returned from inside the
// unit of work are already typed and pass through unchanged.
func txError(operation string, err error) error {
	if errors.Is(err, store.ErrTransactionFailed) {
		return NewServiceError(operation, "transaction failed", err)
	}
	return err
}
