package services

import (
	"phonebook_backend/internal/models"
	"phonebook_backend/internal/repositories"
	"phonebook_backend/internal/services/dto"
	"phonebook_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

type ContactService interface {
	List(db *gorm.DB, ownerID string, query *dto.ListContactsQuery) ([]models.Contact, error)
	Get(db *gorm.DB, ownerID, contactID string) (*models.Contact, error)
	Create(db *gorm.DB, ownerID string, req *dto.CreateContactRequest) (*models.Contact, error)
	Update(db *gorm.DB, ownerID, contactID string, req *dto.UpdateContactRequest) (*models.Contact, error)
	UpdateFavorite(db *gorm.DB, ownerID, contactID string, favorite bool) (*models.Contact, error)
	Delete(db *gorm.DB, ownerID, contactID string) (*models.Contact, error)
}

type ContactServiceImpl struct {
	contactRepo repositories.ContactRepository
}

func NewContactService(contactRepo repositories.ContactRepository) ContactService {
	return &ContactServiceImpl{contactRepo: contactRepo}
}

func (s *ContactServiceImpl) List(db *gorm.DB, ownerID string, query *dto.ListContactsQuery) ([]models.Contact, error) {
	page := query.Page
	if page <= 0 {
		page = defaultPage
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	contacts, err := s.contactRepo.FindByOwner(db, repositories.ContactFilter{
		OwnerID:  ownerID,
		Favorite: query.Favorite,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return contacts, nil
}

// findOwned fetches a contact and collapses both true absence and an
// ownership mismatch into the same not-found error.
func (s *ContactServiceImpl) findOwned(db *gorm.DB, ownerID, contactID string) (*models.Contact, error) {
	contact, err := s.contactRepo.FindByID(db, contactID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrContactNotFound) {
			return nil, apperrors.ErrContactNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if contact.OwnerID == "" || contact.OwnerID != ownerID {
		return nil, apperrors.ErrContactNotFound
	}
	return contact, nil
}

func (s *ContactServiceImpl) Get(db *gorm.DB, ownerID, contactID string) (*models.Contact, error) {
	return s.findOwned(db, ownerID, contactID)
}

func (s *ContactServiceImpl) Create(db *gorm.DB, ownerID string, req *dto.CreateContactRequest) (*models.Contact, error) {
	contact := &models.Contact{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Favorite: req.Favorite,
		// The owner always comes from the authenticated identity, never
		// from the request body.
		OwnerID: ownerID,
	}

	if err := s.contactRepo.Create(db, contact); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return contact, nil
}

func (s *ContactServiceImpl) Update(db *gorm.DB, ownerID, contactID string, req *dto.UpdateContactRequest) (*models.Contact, error) {
	contact, err := s.findOwned(db, ownerID, contactID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Favorite != nil {
		contact.Favorite = *req.Favorite
	}

	if err := s.contactRepo.Update(db, contact); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return contact, nil
}

func (s *ContactServiceImpl) UpdateFavorite(db *gorm.DB, ownerID, contactID string, favorite bool) (*models.Contact, error) {
	contact, err := s.findOwned(db, ownerID, contactID)
	if err != nil {
		return nil, err
	}

	contact.Favorite = favorite
	if err := s.contactRepo.Update(db, contact); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return contact, nil
}

// Delete removes an owned contact and returns it, matching the API
// contract of responding with the deleted record.
func (s *ContactServiceImpl) Delete(db *gorm.DB, ownerID, contactID string) (*models.Contact, error) {
	contact, err := s.findOwned(db, ownerID, contactID)
	if err != nil {
		return nil, err
	}

	if err := s.contactRepo.Delete(db, contact.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return contact, nil
}
