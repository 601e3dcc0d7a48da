package dto

type CreateContactRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Favorite bool   `json:"favorite"`
}

// UpdateContactRequest carries a partial update; nil fields are left
// untouched.
type UpdateContactRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Favorite *bool   `json:"favorite"`
}

type UpdateFavoriteRequest struct {
	Favorite *bool `json:"favorite" validate:"required"`
}

// ListContactsQuery is bound from query parameters.
type ListContactsQuery struct {
	Page     int   `form:"page"`
	Limit    int   `form:"limit"`
	Favorite *bool `form:"favorite"`
}
