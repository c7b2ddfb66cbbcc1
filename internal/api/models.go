package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
)

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Username string        `json:"username"            validate:"required,min=3,max=50"`
	Email    string        `json:"email"               validate:"required,email"`
	Password string        `json:"password"            validate:"required,min=8,max=72"`
	FullName string        `json:"full_name,omitempty" validate:"max=100"`
	Bio      string        `json:"bio,omitempty"       validate:"max=1000"`
	Roles    []domain.Role `json:"roles,omitempty"     validate:"dive,oneof=ROLE_BLOGGER ROLE_READER"`
}

// LoginRequest defines the payload for the session endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned alongside the session cookie for API clients
// that cannot follow the redirect.
type SessionResponse struct {
	UserID      uuid.UUID     `json:"user_id"`
	Username    string        `json:"username"`
	Roles       []domain.Role `json:"roles"`
	AccessToken string        `json:"token"`
	ExpiresAt   string        `json:"expires_at"`
	RedirectTo  string        `json:"redirect_to"`
}

// UpdateProfileRequest is a partial profile update; absent fields are kept.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Bio      *string `json:"bio,omitempty"       validate:"omitempty,max=1000"`
}

// CreatePostRequest defines the payload for creating a post.
type CreatePostRequest struct {
	Title   string   `json:"title"          validate:"required,max=200"`
	Content string   `json:"content"        validate:"required"`
	Tags    []string `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

// UpdatePostRequest is a partial post update; absent fields are kept.
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty"   validate:"omitempty,max=200"`
	Content *string `json:"content,omitempty"`
}

// CommentRequest defines the payload for creating or editing a comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID             uuid.UUID     `json:"id"`
	Username       string        `json:"username"`
	FullName       string        `json:"full_name,omitempty"`
	Bio            string        `json:"bio,omitempty"`
	Roles          []domain.Role `json:"roles"`
	FollowingCount int           `json:"following_count"`
	FollowersCount int           `json:"followers_count"`
	CreatedAt      time.Time     `json:"created_at"`
}

// MeResponse adds the caller's private fields to UserResponse.
type MeResponse struct {
	UserResponse
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// PostResponse is the public view of a post.
type PostResponse struct {
	ID        uuid.UUID     `json:"id"`
	AuthorID  uuid.UUID     `json:"author_id"`
	Author    *UserResponse `json:"author,omitempty"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Tags      []string      `json:"tags"`
	LikeCount int           `json:"like_count"`
	LikedBy   []uuid.UUID   `json:"liked_by"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CommentResponse is the public view of a comment.
type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FollowStatusResponse reports whether the caller follows a user.
type FollowStatusResponse struct {
	Following bool `json:"following"`
}

// PageResponse wraps one page of items.
type PageResponse[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

func toPageResponse[S, T any](page *domain.Page[S], convert func(S) T) PageResponse[T] {
	items := make([]T, len(page.Items))
	for i, item := range page.Items {
		items[i] = convert(item)
	}
	return PageResponse[T]{
		Items:   items,
		Total:   page.Total,
		Offset:  page.Offset,
		Limit:   page.Limit,
		HasMore: page.HasMore(),
	}
}

func toUserResponse(u *domain.User) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []domain.Role{}
	}
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		Bio:            u.Bio,
		Roles:          roles,
		FollowingCount: u.FollowingCount,
		FollowersCount: u.FollowersCount,
		CreatedAt:      u.CreatedAt,
	}
}

func toMeResponse(u *domain.User) MeResponse {
	return MeResponse{
		UserResponse: toUserResponse(u),
		Email:        u.Email,
		LastLoginAt:  u.LastLoginAt,
	}
}

func toPostResponse(p *domain.Post) PostResponse {
	tags := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = t.Name
	}
	resp := PostResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		Tags:      tags,
		LikeCount: p.LikeCount(),
		LikedBy:   p.LikedBy.Slice(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Author != nil {
		author := toUserResponse(p.Author)
		resp.Author = &author
	}
	return resp
}

func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
