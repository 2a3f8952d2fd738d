package repository

import (
	"errors"
	"time"

	"github.com/damirov/blogger-platform/internal/models"
	"github.com/damirov/blogger-platform/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionRepository is the gorm-backed services.SessionStore. The ledger and
// the device list live in their own tables, so the rotation race is settled
// by a conditional UPDATE on the single ledger row instead of locking the
// whole user aggregate.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

var _ services.SessionStore = (*SessionRepository)(nil)

func (r *SessionRepository) UserByLoginOrEmail(loginOrEmail string) (*models.User, error) {
	var user models.User
	err := r.db.Where("login = ? OR email = ?", loginOrEmail, loginOrEmail).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *SessionRepository) UserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *SessionRepository) CreateSession(device models.DeviceSession, entry models.RefreshToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&device).Error; err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
}

// RotateToken is the one place correctness of rotation is decided. The
// conditional UPDATE matches only a still-valid entry; of two concurrent
// refreshes presenting the same token, exactly one sees RowsAffected == 1.
// The loser gets ErrNoActiveToken and never mints a successor.
func (r *SessionRepository) RotateToken(userID uuid.UUID, oldTokenID string, successor models.RefreshToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND token_id = ? AND is_valid = ?", userID, oldTokenID, true).
			Update("is_valid", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return services.ErrNoActiveToken
		}

		if err := tx.Create(&successor).Error; err != nil {
			return err
		}

		return tx.Model(&models.DeviceSession{}).
			Where("user_id = ? AND device_id = ?", userID, successor.DeviceID).
			Update("last_active_date", time.Now().UTC()).Error
	})
}

func (r *SessionRepository) InvalidateToken(userID uuid.UUID, tokenID string) error {
	res := r.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND token_id = ? AND is_valid = ?", userID, tokenID, true).
		Update("is_valid", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrNoActiveToken
	}
	return nil
}

func (r *SessionRepository) RemoveDevice(userID uuid.UUID, deviceID string) error {
	return r.db.Where("user_id = ? AND device_id = ?", userID, deviceID).
		Delete(&models.DeviceSession{}).Error
}

func (r *SessionRepository) Devices(userID uuid.UUID) ([]models.DeviceSession, error) {
	var devices []models.DeviceSession
	err := r.db.Where("user_id = ?", userID).
		Order("last_active_date DESC").
		Find(&devices).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *SessionRepository) RevokeOtherDevices(userID uuid.UUID, keepDeviceID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND device_id <> ? AND is_valid = ?", userID, keepDeviceID, true).
			Update("is_valid", false).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND device_id <> ?", userID, keepDeviceID).
			Delete(&models.DeviceSession{}).Error
	})
}

func (r *SessionRepository) RevokeDevice(userID uuid.UUID, deviceID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND device_id = ? AND is_valid = ?", userID, deviceID, true).
			Update("is_valid", false).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND device_id = ?", userID, deviceID).
			Delete(&models.DeviceSession{}).Error
	})
}

func (r *SessionRepository) DeviceOwner(deviceID string) (uuid.UUID, error) {
	var device models.DeviceSession
	err := r.db.First(&device, "device_id = ?", deviceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, services.ErrDeviceNotFound
		}
		return uuid.Nil, err
	}
	return device.UserID, nil
}

func (r *SessionRepository) InvalidateAllSessions(userID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND is_valid = ?", userID, true).
			Update("is_valid", false).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.DeviceSession{}).Error
	})
}
