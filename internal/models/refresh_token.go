package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is one ledger entry per issued refresh token. Only the random
// TokenID embedded in the signed token is stored, never the token itself: a
// leaked table cannot reconstruct a usable token.
//
// The ledger is append-only. IsValid flips to false exactly once (rotation or
// revocation) and never back; rows are pruned only by the maintenance sweep
// once past ExpiresAt.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	TokenID   string    `gorm:"size:36;not null;uniqueIndex" json:"-"`
	DeviceID  string    `gorm:"size:36;not null;index" json:"deviceId"`
	IsValid   bool      `gorm:"not null;default:true" json:"isValid"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
}
