package dto

import "phonebook_backend/internal/models"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResendVerificationRequest asks for the verification mail again.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserCredentials is the public projection of a user returned by the
// register and login endpoints.
type UserCredentials struct {
	Email        string              `json:"email"`
	Subscription models.Subscription `json:"subscription"`
}

type RegisterResponse struct {
	User UserCredentials `json:"user"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  UserCredentials `json:"user"`
}
