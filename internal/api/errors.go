package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/blogsphere-api/internal/api/shared"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/service"
	"github.com/phrazzld/blogsphere-api/internal/service/auth"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

const genericErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps service, store and auth errors to HTTP status
// codes without exposing internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var notFound *service.NotFoundError
	switch {
	case err == nil:
		return http.StatusInternalServerError

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden

	case errors.As(err, &notFound), store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrDuplicateEmail),
		store.IsDuplicateError(err):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrSelfFollowNotAllowed),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Domain
// validation messages are written for users and pass through; everything
// else maps to fixed text.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	var notFound *service.NotFoundError
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, service.ErrUnauthorized):
		return "You do not own this resource"

	case errors.As(err, &notFound):
		return capitalize(notFound.Entity) + " not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrPostNotFound):
		return "Post not found"
	case errors.Is(err, store.ErrCommentNotFound):
		return "Comment not found"
	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, service.ErrDuplicateUsername):
		return "Username already taken"
	case errors.Is(err, service.ErrDuplicateEmail):
		return "Email already registered"
	case store.IsDuplicateError(err):
		return "Resource already exists"

	case errors.Is(err, service.ErrSelfFollowNotAllowed):
		return "You cannot follow yourself"
	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrInconsistentGraphWrite):
		return "Follow update failed, please retry"

	default:
		return genericErrorMessage
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted details. A non-empty message overrides the mapped one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// validationMessage extracts the user-facing part of a domain validation error.
func validationMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return "Invalid " + ve.Field + ": " + ve.Message
	}
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return capitalize(msg[i+len(prefix):])
	}
	return "Validation error"
}

// SanitizeValidationError turns go-playground validator errors into a short
// message naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof", "dive":
		return "invalid value"
	default:
		return "validation failed"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
