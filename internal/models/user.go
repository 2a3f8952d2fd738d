package models

import (
	"time"

	"github.com/google/uuid"
)

// User owns the refresh-token ledger and the device-session list. Both are
// mutated only through the session repository, one command per mutation.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Login        string    `gorm:"size:30;not null;uniqueIndex" json:"login"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`

	// Email confirmation / password recovery. A single code slot serves both
	// flows, matching the account lifecycle: a recovery code supersedes any
	// pending confirmation code.
	ConfirmationCode *string    `gorm:"size:36;index" json:"-"`
	RecoveryCode     *string    `gorm:"size:36;index" json:"-"`
	CodeExpiresAt    *time.Time `json:"-"`
	IsConfirmed      bool       `gorm:"default:false" json:"-"`

	CreatedAt time.Time `json:"createdAt"`

	RefreshTokens []RefreshToken  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Devices       []DeviceSession `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
