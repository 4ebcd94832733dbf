package model

import "time"

// LoginRequest accepts JSON {email,password} or the OAuth2 password form
// fields username/password.
type LoginRequest struct {
	Email    string `json:"email" form:"username" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
