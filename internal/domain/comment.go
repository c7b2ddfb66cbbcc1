package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Comment validation errors
var (
	ErrEmptyCommentID       = fmt.Errorf("%w: comment ID cannot be empty", ErrValidation)
	ErrEmptyCommentPostID   = fmt.Errorf("%w: comment post ID cannot be empty", ErrValidation)
	ErrEmptyCommentAuthorID = fmt.Errorf("%w: comment author ID cannot be empty", ErrValidation)
	ErrCommentTooLong       = fmt.Errorf("%w: comment must be at most 5000 characters long", ErrValidation)
)

const maxCommentLength = 5000

// Comment is a reply to a post. PostID never changes after creation.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewComment builds a comment by authorID on postID.
func NewComment(postID, authorID uuid.UUID, content string, now time.Time) (*Comment, error) {
	c := &Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCommentID
	}
	if c.PostID == uuid.Nil {
		return ErrEmptyCommentPostID
	}
	if c.AuthorID == uuid.Nil {
		return ErrEmptyCommentAuthorID
	}
	return validateCommentContent(c.Content)
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if len(content) > maxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// CommentPatch carries the editable fields of a comment.
type CommentPatch struct {
	Content *string `json:"content,omitempty"`
}

// Apply copies the non-nil fields of patch onto c and stamps UpdatedAt.
func (p CommentPatch) Apply(c *Comment, now time.Time) error {
	if p.Content == nil {
		return nil
	}
	if err := validateCommentContent(*p.Content); err != nil {
		return err
	}
	c.Content = *p.Content
	c.UpdatedAt = now
	return nil
}
