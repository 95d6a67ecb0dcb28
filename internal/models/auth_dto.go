package models

import "time"

type RegisterRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
	Name                 string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	User PublicUser `json:"user"`
}

// AuthResult is what login and refresh hand to the transport layer. The raw
// refresh secret is the only copy in existence.
type AuthResult struct {
	User             PublicUser
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
