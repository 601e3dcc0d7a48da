package services

import (
	"phonebook_backend/internal/auth"
	"phonebook_backend/internal/email"
	"phonebook_backend/internal/models"
	"phonebook_backend/internal/repositories"
	"phonebook_backend/internal/services/dto"
	"phonebook_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(db *gorm.DB, userID string) error
	Verify(db *gorm.DB, verificationToken string) error
	ResendVerification(db *gorm.DB, emailAddr string) error
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
	mailer   email.Sender
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager, mailer email.Sender) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
	}
}

// Register creates an unverified user and mails the verification link.
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hashedPassword,
		Subscription:      models.SubscriptionStarter,
		Verified:          false,
		VerificationToken: uuid.NewString(),
		AvatarURL:         auth.GravatarURL(req.Email),
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailInUse
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.mailer.SendVerification(user.Email, user.VerificationToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.RegisterResponse{
		User: dto.UserCredentials{
			Email:        user.Email,
			Subscription: user.Subscription,
		},
	}, nil
}

// Login verifies credentials, requires a confirmed email, and issues a
// fresh session token. The issued token is persisted on the user record;
// the auth middleware accepts only this most recent one.
func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.Verified {
		return nil, apperrors.ErrNotVerified
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateToken(db, user.ID, token); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserCredentials{
			Email:        user.Email,
			Subscription: user.Subscription,
		},
	}, nil
}

// Logout clears the stored session token, invalidating it for future
// requests even though its signature is still valid.
func (s *AuthServiceImpl) Logout(db *gorm.DB, userID string) error {
	if err := s.userRepo.UpdateToken(db, userID, ""); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// Verify consumes a verification token: the matching user becomes
// verified and the token is cleared, so it cannot be replayed.
func (s *AuthServiceImpl) Verify(db *gorm.DB, verificationToken string) error {
	user, err := s.userRepo.FindByVerificationToken(db, verificationToken)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrVerifyTokenNotFound
		}
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.MarkVerified(db, user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ResendVerification re-sends the existing token. It never changes
// state and is rejected once the user is verified.
func (s *AuthServiceImpl) ResendVerification(db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrEmailNotFound
		}
		return apperrors.InternalError(err)
	}

	if user.Verified {
		return apperrors.ErrAlreadyVerified
	}

	if err := s.mailer.SendVerification(user.Email, user.VerificationToken); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
