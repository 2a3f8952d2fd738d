package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/damirov/blogger-platform/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrLoginTaken          = errors.New("user with this login already exists")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrBadConfirmationCode = errors.New("confirmation code is incorrect")
	ErrCodeExpired         = errors.New("confirmation code expired")
	ErrAlreadyConfirmed    = errors.New("email already confirmed")
	ErrEmailNotFound       = errors.New("user with this email not found")
)

const confirmationCodeTTL = time.Hour

// AuthService handles the account lifecycle around sessions: registration
// with email confirmation and password recovery. Email delivery is
// fire-and-forget; a failed send is logged and the request still succeeds.
type AuthService struct {
	db       *gorm.DB
	email    *EmailService
	sessions SessionStore
}

func NewAuthService(db *gorm.DB, email *EmailService, sessions SessionStore) *AuthService {
	return &AuthService{db: db, email: email, sessions: sessions}
}

func (s *AuthService) Register(login, email, password string) error {
	var existing models.User
	if err := s.db.Where("login = ?", login).First(&existing).Error; err == nil {
		return ErrLoginTaken
	}
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	code := uuid.NewString()
	expiresAt := time.Now().UTC().Add(confirmationCodeTTL)

	user := models.User{
		Login:            login,
		Email:            email,
		PasswordHash:     string(hash),
		ConfirmationCode: &code,
		CodeExpiresAt:    &expiresAt,
		IsConfirmed:      false,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	go s.email.SendRegistrationEmail(email, code)
	return nil
}

func (s *AuthService) ConfirmEmail(code string) error {
	var user models.User
	if err := s.db.Where("confirmation_code = ?", code).First(&user).Error; err != nil {
		return ErrBadConfirmationCode
	}

	if user.CodeExpiresAt == nil || user.CodeExpiresAt.Before(time.Now().UTC()) {
		return ErrCodeExpired
	}
	if user.IsConfirmed {
		return ErrAlreadyConfirmed
	}

	return s.db.Model(&user).Update("is_confirmed", true).Error
}

func (s *AuthService) ResendConfirmation(email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return ErrEmailNotFound
	}
	if user.IsConfirmed {
		return ErrAlreadyConfirmed
	}

	code := uuid.NewString()
	expiresAt := time.Now().UTC().Add(confirmationCodeTTL)
	err := s.db.Model(&user).Updates(map[string]interface{}{
		"confirmation_code": code,
		"code_expires_at":   expiresAt,
	}).Error
	if err != nil {
		return fmt.Errorf("update confirmation code: %w", err)
	}

	go s.email.SendRegistrationEmail(email, code)
	return nil
}

// RecoverPassword always succeeds from the caller's perspective: an unknown
// email gets no error, so account existence cannot be probed.
func (s *AuthService) RecoverPassword(email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	code := uuid.NewString()
	expiresAt := time.Now().UTC().Add(confirmationCodeTTL)
	err := s.db.Model(&user).Updates(map[string]interface{}{
		"recovery_code":   code,
		"code_expires_at": expiresAt,
	}).Error
	if err != nil {
		return fmt.Errorf("update recovery code: %w", err)
	}

	go s.email.SendPasswordRecovery(email, code)
	return nil
}

// SetNewPassword finishes recovery and revokes every session of the account:
// a password reset closes all devices, not just the one that asked.
func (s *AuthService) SetNewPassword(newPassword, recoveryCode string) error {
	var user models.User
	if err := s.db.Where("recovery_code = ?", recoveryCode).First(&user).Error; err != nil {
		return ErrBadConfirmationCode
	}

	if user.CodeExpiresAt == nil || user.CodeExpiresAt.Before(time.Now().UTC()) {
		return ErrCodeExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.db.Model(&user).Updates(map[string]interface{}{
		"password_hash": string(hash),
		"is_confirmed":  true,
		"recovery_code": nil,
	}).Error
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.sessions.InvalidateAllSessions(user.ID); err != nil {
		// The password did change; a failed cascade is alert-worthy but not
		// a reason to fail the reset.
		slog.Error("account-wide session revoke failed", "user_id", user.ID.String(), "error", err)
	}
	return nil
}

func (s *AuthService) UserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
