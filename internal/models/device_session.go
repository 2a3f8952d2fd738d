package models

import (
	"time"

	"github.com/google/uuid"
)

// DeviceSession is one logical client session (a browser or app instance).
// Login always creates a new one; it is removed on logout or explicit revoke.
//
// The device list and the refresh-token ledger reconcile eventually, not via
// a foreign key on validity: between a rotation and the next refresh a device
// row may briefly have no active ledger entry, and that is a legitimate state.
type DeviceSession struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	DeviceID       string    `gorm:"size:36;not null;uniqueIndex" json:"deviceId"`
	IP             string    `gorm:"size:45;not null" json:"ip"`
	Title          string    `gorm:"size:500;not null" json:"title"`
	LastActiveDate time.Time `gorm:"not null" json:"lastActiveDate"`
}
