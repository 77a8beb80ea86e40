package primary

import (
	"context"
	"time"
)

// UserService defines the primary port for user profile operations.
type UserService interface {
	// CreateUser registers a new user.
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserProfile, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*UserProfile, error)

	// GetUserByNickname retrieves a user by nickname.
	GetUserByNickname(ctx context.Context, nickname string) (*UserProfile, error)

	// ListUsers lists users ordered by nickname.
	ListUsers(ctx context.Context, limit int) ([]*UserProfile, error)
}

// CreateUserRequest contains parameters for creating a user.
type CreateUserRequest struct {
	Nickname  string
	Name      string
	Surname   string
	AvatarURL string
	Bio       string
}

// UserProfile is the display snapshot of a user.
type UserProfile struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	AvatarURL string    `json:"avatarUrl"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
