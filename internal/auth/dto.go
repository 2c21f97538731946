package auth

import (
	"github.com/hotelops/reclamations-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint. Accounts
// sign in by name.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the current access token (possibly expired) and the
// refresh token paired with it.
type RefreshRequest struct {
	AccessToken  string
	RefreshToken string
}

// LoginResponse contains the tokens and user produced by a successful login.
type LoginResponse struct {
	User         *users.UserDTO `json:"user"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
}

// TokenPair is returned by a refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
