package models

import (
	"time"

	"github.com/google/uuid"
)

type Blog struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"size:15;not null" json:"name"`
	Description  string    `gorm:"size:500;not null" json:"description"`
	WebsiteURL   string    `gorm:"size:100;not null" json:"websiteUrl"`
	IsMembership bool      `gorm:"default:false" json:"isMembership"`
	CreatedAt    time.Time `json:"createdAt"`
}
