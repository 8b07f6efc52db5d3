package auth

import (
	"github.com/agentmart/agentmart-backend/internal/users"
)

// RegisterInput captures a signup request.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"required,min=1,max=120"`
}

// LoginInput captures a credential login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is an issued access/refresh pair plus the authenticated user.
type Session struct {
	AccessID     string         `json:"-"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}
