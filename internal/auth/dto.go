package auth

import (
	"github.com/greenmandi/greenmandi-backend/internal/users"
)

// RegisterInput creates a customer account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"required,min=2,max=120"`
	Language string `json:"language" validate:"omitempty,oneof=en hi mr"`
}

// LoginInput authenticates an existing account.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput rotates a refresh token. The access token may be expired;
// only its signature has to hold.
type RefreshInput struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is the credential set handed to clients.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthView bundles the signed-in profile with its tokens.
type AuthView struct {
	User   users.ProfileView `json:"user"`
	Tokens TokenPair         `json:"tokens"`
}
