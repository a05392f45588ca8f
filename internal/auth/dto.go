package auth

import (
	"github.com/google/uuid"

	"github.com/farmtotable/farmtotable-backend/internal/users"
)

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Address   string `json:"address" validate:"max=255"`
}

// RegisterResult is returned after a successful registration.
type RegisterResult struct {
	User users.UserDTO `json:"user"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the signed token and the minimum identity the client
// needs to bootstrap its session.
type LoginResult struct {
	Token  string        `json:"token"`
	UserID uuid.UUID     `json:"user_id"`
	Role   string        `json:"role"`
	User   users.UserDTO `json:"user"`
}
