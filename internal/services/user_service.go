package services

import (
	"fmt"
	"os"
	"path/filepath"

	"phonebook_backend/internal/imageprocessor"
	"phonebook_backend/internal/models"
	"phonebook_backend/internal/repositories"
	"phonebook_backend/pkg/apperrors"

	"phonebook_backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	UpdateSubscription(db *gorm.DB, userID string, sub models.Subscription) (*models.User, error)
	UpdateAvatar(db *gorm.DB, userID, tmpPath, originalName string) (string, error)
}

type UserServiceImpl struct {
	userRepo  repositories.UserRepository
	processor *imageprocessor.Processor
	store     storage.Storage
}

func NewUserService(userRepo repositories.UserRepository, processor *imageprocessor.Processor, store storage.Storage) UserService {
	return &UserServiceImpl{
		userRepo:  userRepo,
		processor: processor,
		store:     store,
	}
}

func (s *UserServiceImpl) UpdateSubscription(db *gorm.DB, userID string, sub models.Subscription) (*models.User, error) {
	if err := s.userRepo.UpdateSubscription(db, userID, sub); err != nil {
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// UpdateAvatar resizes the temporary upload to the fixed avatar square,
// stores it under a unique name and records the new URL. The temporary
// file is removed on every path, success or failure.
func (s *UserServiceImpl) UpdateAvatar(db *gorm.DB, userID, tmpPath, originalName string) (string, error) {
	defer os.Remove(tmpPath)

	file, err := os.Open(tmpPath)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	resized, err := s.processor.ProcessAvatar(file)
	file.Close()
	if err != nil {
		return "", apperrors.NewBadRequestError("Unsupported image file")
	}

	filename := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(originalName))
	avatarURL, err := s.store.Save(filename, resized)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateAvatarURL(db, userID, avatarURL); err != nil {
		s.store.Delete(filename)
		return "", apperrors.InternalError(err)
	}

	return avatarURL, nil
}
