package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("alice", "alice@x.com", "correct-horse")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.Username != "alice" {
		t.Errorf("Expected username alice, got %s", user.Username)
	}
	if len(user.Roles) != 1 || user.Roles[0] != RoleReader {
		t.Errorf("Expected default role %s, got %v", RoleReader, user.Roles)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	blogger, err := NewUser("bob", "bob@x.com", "correct-horse", RoleBlogger)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !blogger.HasRole(RoleBlogger) || blogger.HasRole(RoleReader) {
		t.Errorf("Expected only blogger role, got %v", blogger.Roles)
	}
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		roles    []Role
		want     error
	}{
		{"empty username", "", "a@x.com", "password1", nil, ErrEmptyUsername},
		{"short username", "ab", "a@x.com", "password1", nil, ErrInvalidUsername},
		{"username with space", "a b c", "a@x.com", "password1", nil, ErrInvalidUsername},
		{"empty email", "alice", "", "password1", nil, ErrEmptyEmail},
		{"invalid email", "alice", "invalidemail", "password1", nil, ErrInvalidEmail},
		{"empty password", "alice", "a@x.com", "", nil, ErrEmptyPassword},
		{"short password", "alice", "a@x.com", "short", nil, ErrPasswordTooShort},
		{"long password", "alice", "a@x.com", strings.Repeat("p", 73), nil, ErrPasswordTooLong},
		{"unknown role", "alice", "a@x.com", "password1", []Role{"ROLE_ROOT"}, ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, tt.email, tt.password, tt.roles...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected error %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUserValidateWithHashedPassword(t *testing.T) {
	u := User{
		ID:             uuid.New(),
		Username:       "alice",
		Email:          "alice@x.com",
		HashedPassword: "$2a$10$hash",
	}
	if err := u.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	u.ID = uuid.Nil
	if err := u.Validate(); err != ErrEmptyUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}
}

func TestUserPatchApply(t *testing.T) {
	newName := "Alice Liddell"

	u := &User{FullName: "Alice", Bio: "keeps this"}
	if err := (UserPatch{FullName: &newName}).Apply(u); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u.FullName != newName {
		t.Errorf("Expected full name %q, got %q", newName, u.FullName)
	}
	if u.Bio != "keeps this" {
		t.Errorf("Expected bio to be unchanged, got %q", u.Bio)
	}

	empty := ""
	if err := (UserPatch{Bio: &empty}).Apply(u); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u.Bio != "" {
		t.Errorf("Expected explicit empty bio to clear it, got %q", u.Bio)
	}

	long := strings.Repeat("b", maxBioLength+1)
	err := (UserPatch{FullName: &empty, Bio: &long}).Apply(u)
	if !errors.Is(err, ErrProfileFieldTooLong) {
		t.Errorf("Expected error %v, got %v", ErrProfileFieldTooLong, err)
	}
	if u.FullName != newName {
		t.Error("Expected a rejected patch to leave the user untouched")
	}

	if !(UserPatch{}).IsEmpty() {
		t.Error("Expected zero patch to be empty")
	}
}
