package dto

import (
	"time"

	"github.com/listenupapp/pressroom/internal/domain"
)

// UserResponse is a user as the API exposes it.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	ExternalID  string    `json:"external_id" doc:"Identity provider subject"`
	Email       string    `json:"email" doc:"Email address"`
	DisplayName string    `json:"display_name" doc:"Display name"`
	AvatarURL   string    `json:"avatar_url,omitempty" doc:"Avatar URL"`
	Role        string    `json:"role" enum:"MEMBER,ADMIN" doc:"Role"`
	CreatedAt   time.Time `json:"created_at" doc:"First sign-in"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last profile change"`
}

// UserFromDomain converts a domain user.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		ExternalID:  u.ExternalID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// AuthorResponse is the public view of a post author.
type AuthorResponse struct {
	ID          string `json:"id" doc:"User ID"`
	DisplayName string `json:"display_name" doc:"Display name"`
	AvatarURL   string `json:"avatar_url,omitempty" doc:"Avatar URL"`
}

// SessionRequest exchanges an identity provider token for a session.
type SessionRequest struct {
	IDToken string `json:"id_token" doc:"Identity provider JWT"`
}

// SessionResponse is an issued session.
type SessionResponse struct {
	AccessToken string       `json:"access_token" doc:"Bearer token for subsequent requests"`
	TokenType   string       `json:"token_type" doc:"Always Bearer"`
	ExpiresAt   time.Time    `json:"expires_at" doc:"Token expiry"`
	User        UserResponse `json:"user" doc:"Signed-in user"`
}
