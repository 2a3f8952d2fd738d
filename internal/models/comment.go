package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PostID        uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Content       string    `gorm:"size:300;not null" json:"content"`
	UserID        uuid.UUID `gorm:"type:uuid;not null" json:"-"`
	UserLogin     string    `gorm:"size:30;not null" json:"-"`
	LikesCount    int       `gorm:"not null;default:0" json:"-"`
	DislikesCount int       `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CommentLike keeps one row per (comment, user).
type CommentLike struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	CommentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_comment_user" json:"-"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_comment_user" json:"-"`
	Status    LikeStatus `gorm:"size:10;not null" json:"-"`
	CreatedAt time.Time  `gorm:"not null" json:"-"`
}
