package dto

import "time"

// LoginDTO приходит формой (application/x-www-form-urlencoded), как в OAuth2 password flow.
type LoginDTO struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RegisterDTO struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"omitempty,max=255"`
}

type AuthResponseDTO struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        UserPublicDTO `json:"user"`
}
