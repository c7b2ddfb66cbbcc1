package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Tag validation errors
var (
	ErrEmptyTagName   = fmt.Errorf("%w: tag name cannot be empty", ErrValidation)
	ErrTagNameTooLong = fmt.Errorf("%w: tag name must be at most 50 characters long", ErrValidation)
)

const maxTagNameLength = 50

// Tag labels posts. Names are unique after normalization.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NormalizeTagName trims and lower-cases a tag name so that "Go" and " go "
// resolve to the same tag.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewTag creates a tag with a normalized name.
func NewTag(name string) (*Tag, error) {
	name = NormalizeTagName(name)
	if name == "" {
		return nil, ErrEmptyTagName
	}
	if len(name) > maxTagNameLength {
		return nil, ErrTagNameTooLong
	}
	return &Tag{ID: uuid.New(), Name: name}, nil
}

// NormalizeTagNames normalizes names and drops blanks and duplicates,
// keeping first-seen order.
func NormalizeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = NormalizeTagName(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
