package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyUsername       = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrInvalidUsername     = fmt.Errorf("%w: username must be 3-50 letters, digits, '.', '_' or '-'", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrPasswordTooShort    = fmt.Errorf("%w: password must be at least 8 characters long", ErrValidation)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most 72 characters long", ErrValidation)
	ErrEmptyPassword       = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrInvalidRole         = fmt.Errorf("%w: invalid role", ErrValidation)
	ErrProfileFieldTooLong = fmt.Errorf("%w: profile field too long", ErrValidation)
)

const (
	minPasswordLength = 8
	// bcrypt ignores input past 72 bytes
	maxPasswordLength = 72
	maxFullNameLength = 100
	maxBioLength      = 1000
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)
	emailValidator  = validator.New()
)

// User represents a registered author or reader.
//
// The follower/following sets are not carried on the record; they live in the
// follow relation owned by the identity store. FollowingCount and
// FollowersCount are maintained in the same unit of work as that relation.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Password       string     `json:"-"` // Plaintext, only present before registration hashes it
	HashedPassword string     `json:"-"`
	FullName       string     `json:"full_name,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	Roles          []Role     `json:"roles"`
	FollowingCount int        `json:"following_count"`
	FollowersCount int        `json:"followers_count"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewUser creates a new User with a fresh ID and timestamps.
// When no roles are given the user receives DefaultRole.
//
// The password is kept in plaintext; the caller must hash it before storing.
func NewUser(username, email, password string, roles ...Role) (*User, error) {
	if len(roles) == 0 {
		roles = []Role{DefaultRole}
	}
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Email:     strings.TrimSpace(email),
		Password:  password,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}
	if !usernamePattern.MatchString(u.Username) {
		return ErrInvalidUsername
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if err := emailValidator.Var(u.Email, "email"); err != nil {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		switch {
		case len(u.Password) < minPasswordLength:
			return ErrPasswordTooShort
		case len(u.Password) > maxPasswordLength:
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	for _, r := range u.Roles {
		if !r.Valid() {
			return ErrInvalidRole
		}
	}

	return validateProfile(u.FullName, u.Bio)
}

// HasRole reports whether the user holds r.
func (u *User) HasRole(r Role) bool {
	return HasRole(u.Roles, r)
}

func validateProfile(fullName, bio string) error {
	if len(fullName) > maxFullNameLength {
		return NewValidationError("full_name", "is too long", ErrProfileFieldTooLong)
	}
	if len(bio) > maxBioLength {
		return NewValidationError("bio", "is too long", ErrProfileFieldTooLong)
	}
	return nil
}

// UserPatch carries the mutable profile fields of a user.
// A nil field means "leave unchanged".
type UserPatch struct {
	FullName *string `json:"full_name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.FullName == nil && p.Bio == nil
}

// Apply copies the non-nil fields of p onto u.
func (p UserPatch) Apply(u *User) error {
	fullName, bio := u.FullName, u.Bio
	if p.FullName != nil {
		fullName = *p.FullName
	}
	if p.Bio != nil {
		bio = *p.Bio
	}
	if err := validateProfile(fullName, bio); err != nil {
		return err
	}
	u.FullName, u.Bio = fullName, bio
	return nil
}
