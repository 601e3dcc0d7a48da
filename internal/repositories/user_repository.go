package repositories

import (
	"errors"

	"phonebook_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByVerificationToken(db *gorm.DB, token string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	UpdateToken(db *gorm.DB, userID, token string) error
	UpdateSubscription(db *gorm.DB, userID string, sub models.Subscription) error
	UpdateAvatarURL(db *gorm.DB, userID, avatarURL string) error
	MarkVerified(db *gorm.DB, userID string) error
}

// UserRepositoryImpl is stateless; the *gorm.DB handle (pool or test
// transaction) travels with each request.
type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByVerificationToken(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "verification_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	return db.Create(user).Error
}

func (r *UserRepositoryImpl) UpdateToken(db *gorm.DB, userID, token string) error {
	return r.updateColumns(db, userID, map[string]interface{}{"token": token})
}

func (r *UserRepositoryImpl) UpdateSubscription(db *gorm.DB, userID string, sub models.Subscription) error {
	return r.updateColumns(db, userID, map[string]interface{}{"subscription": sub})
}

func (r *UserRepositoryImpl) UpdateAvatarURL(db *gorm.DB, userID, avatarURL string) error {
	return r.updateColumns(db, userID, map[string]interface{}{"avatar_url": avatarURL})
}

// MarkVerified is the only write that flips Verified; it clears the
// verification token in the same update.
func (r *UserRepositoryImpl) MarkVerified(db *gorm.DB, userID string) error {
	return r.updateColumns(db, userID, map[string]interface{}{
		"verified":           true,
		"verification_token": "",
	})
}

func (r *UserRepositoryImpl) updateColumns(db *gorm.DB, userID string, cols map[string]interface{}) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
