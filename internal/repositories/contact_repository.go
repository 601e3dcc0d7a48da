package repositories

import (
	"errors"

	"phonebook_backend/internal/models"

	"gorm.io/gorm"
)

var ErrContactNotFound = errors.New("contact not found")

// ContactFilter narrows and pages an owner-scoped listing.
type ContactFilter struct {
	OwnerID  string
	Favorite *bool
	Page     int
	Limit    int
}

type ContactRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Contact, error)
	FindByOwner(db *gorm.DB, filter ContactFilter) ([]models.Contact, error)
	Create(db *gorm.DB, contact *models.Contact) error
	Update(db *gorm.DB, contact *models.Contact) error
	Delete(db *gorm.DB, id string) error
}

type ContactRepositoryImpl struct{}

func NewContactRepository() ContactRepository {
	return &ContactRepositoryImpl{}
}

func (r *ContactRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Contact, error) {
	var contact models.Contact
	if err := db.First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepositoryImpl) FindByOwner(db *gorm.DB, filter ContactFilter) ([]models.Contact, error) {
	query := db.Where("owner_id = ?", filter.OwnerID)
	if filter.Favorite != nil {
		query = query.Where("favorite = ?", *filter.Favorite)
	}

	offset := (filter.Page - 1) * filter.Limit

	var contacts []models.Contact
	err := query.
		Order("created_at").
		Offset(offset).
		Limit(filter.Limit).
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *ContactRepositoryImpl) Create(db *gorm.DB, contact *models.Contact) error {
	return db.Create(contact).Error
}

func (r *ContactRepositoryImpl) Update(db *gorm.DB, contact *models.Contact) error {
	return db.Save(contact).Error
}

func (r *ContactRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Contact{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}
