package database

import (
	"phonebook_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Contact{},
	)
}
