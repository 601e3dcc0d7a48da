package dto

import "phonebook_backend/internal/models"

type UpdateSubscriptionRequest struct {
	Subscription models.Subscription `json:"subscription" validate:"required,oneof=starter pro business"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatarURL"`
}
