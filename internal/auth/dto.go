package auth

import "github.com/RyftEbikes/ryft-site-sub000/internal/users"

// RegisterDTO is the payload for account creation.
type RegisterDTO struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     string  `json:"name" validate:"required"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// LoginDTO is the payload for credential checks.
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionDTO is returned by register and login. The token authenticates
// API calls; the persisted session slot tracks the same user server-side.
type SessionDTO struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
