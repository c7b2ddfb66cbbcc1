package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Post validation errors
var (
	ErrEmptyPostID       = fmt.Errorf("%w: post ID cannot be empty", ErrValidation)
	ErrEmptyPostAuthorID = fmt.Errorf("%w: post author ID cannot be empty", ErrValidation)
	ErrEmptyPostTitle    = fmt.Errorf("%w: post title cannot be empty", ErrValidation)
	ErrPostTitleTooLong  = fmt.Errorf("%w: post title must be at most 200 characters long", ErrValidation)
	ErrEmptyPostContent  = fmt.Errorf("%w: post content cannot be empty", ErrValidation)
)

const maxPostTitleLength = 200

// Post is a blog entry owned by its author.
// AuthorID never changes after creation.
type Post struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Author    *User     `json:"author,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []Tag     `json:"tags"`
	LikedBy   IDSet     `json:"liked_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostDraft is the caller-supplied part of a new post.
// It has no author field: the author always comes from the authenticated caller.
type PostDraft struct {
	Title   string
	Content string
}

// NewPost builds a post for authorID from draft.
func NewPost(authorID uuid.UUID, draft PostDraft, tags []Tag, now time.Time) (*Post, error) {
	post := &Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     strings.TrimSpace(draft.Title),
		Content:   draft.Content,
		Tags:      tags,
		LikedBy:   NewIDSet(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if post.Tags == nil {
		post.Tags = []Tag{}
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}
	return post, nil
}

// Validate checks if the Post has valid data.
func (p *Post) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyPostID
	}
	if p.AuthorID == uuid.Nil {
		return ErrEmptyPostAuthorID
	}
	return validatePostFields(p.Title, p.Content)
}

func validatePostFields(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyPostTitle
	}
	if len(title) > maxPostTitleLength {
		return ErrPostTitleTooLong
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyPostContent
	}
	return nil
}

// LikeCount returns the number of distinct users who like the post.
func (p *Post) LikeCount() int {
	return len(p.LikedBy)
}

// PostPatch carries the editable fields of a post.
// A nil field means "leave unchanged".
type PostPatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil
}

// Apply copies the non-nil fields of patch onto post and stamps UpdatedAt.
// The post is left untouched when the result would be invalid.
func (p PostPatch) Apply(post *Post, now time.Time) error {
	title, content := post.Title, post.Content
	if p.Title != nil {
		title = strings.TrimSpace(*p.Title)
	}
	if p.Content != nil {
		content = *p.Content
	}
	if err := validatePostFields(title, content); err != nil {
		return err
	}
	post.Title, post.Content = title, content
	post.UpdatedAt = now
	return nil
}
