package models

type Contact struct {
	BaseModel
	Name     string `gorm:"not null" json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Favorite bool   `gorm:"default:false" json:"favorite"`

	// OwnerID scopes every read and write to the user that created the
	// contact. It is never serialized to clients.
	OwnerID string `gorm:"type:uuid;index;not null" json:"-"`
}
