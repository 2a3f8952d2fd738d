package models

import (
	"time"

	"github.com/google/uuid"
)

// LikeStatus is the per-user reaction on a post or comment.
type LikeStatus string

const (
	LikeStatusNone    LikeStatus = "None"
	LikeStatusLike    LikeStatus = "Like"
	LikeStatusDislike LikeStatus = "Dislike"
)

func (s LikeStatus) Valid() bool {
	return s == LikeStatusNone || s == LikeStatusLike || s == LikeStatusDislike
}

type Post struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title            string    `gorm:"size:30;not null" json:"title"`
	ShortDescription string    `gorm:"size:100;not null" json:"shortDescription"`
	Content          string    `gorm:"size:1000;not null" json:"content"`
	BlogID           uuid.UUID `gorm:"type:uuid;index" json:"blogId"`
	BlogName         string    `gorm:"size:15;not null" json:"blogName"`
	LikesCount       int       `gorm:"not null;default:0" json:"-"`
	DislikesCount    int       `gorm:"not null;default:0" json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
}

// PostLike keeps one row per (post, user): a user has exactly one status.
type PostLike struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	PostID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_post_user" json:"-"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_post_user" json:"userId"`
	UserLogin string     `gorm:"size:30;not null" json:"login"`
	Status    LikeStatus `gorm:"size:10;not null" json:"-"`
	AddedAt   time.Time  `gorm:"not null" json:"addedAt"`
}
