package dto

import "time"

// LikesInfo decorates a comment with the caller's own status.
type LikesInfo struct {
	LikesCount    int    `json:"likesCount"`
	DislikesCount int    `json:"dislikesCount"`
	MyStatus      string `json:"myStatus"`
}

type LikeDetails struct {
	AddedAt time.Time `json:"addedAt"`
	UserID  string    `json:"userId"`
	Login   string    `json:"login"`
}

// ExtendedLikesInfo additionally lists the three newest likers of a post.
type ExtendedLikesInfo struct {
	LikesCount    int           `json:"likesCount"`
	DislikesCount int           `json:"dislikesCount"`
	MyStatus      string        `json:"myStatus"`
	NewestLikes   []LikeDetails `json:"newestLikes"`
}

type PostView struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	ShortDescription  string            `json:"shortDescription"`
	Content           string            `json:"content"`
	BlogID            string            `json:"blogId"`
	BlogName          string            `json:"blogName"`
	CreatedAt         time.Time         `json:"createdAt"`
	ExtendedLikesInfo ExtendedLikesInfo `json:"extendedLikesInfo"`
}

type CommentatorInfo struct {
	UserID    string `json:"userId"`
	UserLogin string `json:"userLogin"`
}

type CommentView struct {
	ID              string          `json:"id"`
	Content         string          `json:"content"`
	CommentatorInfo CommentatorInfo `json:"commentatorInfo"`
	CreatedAt       time.Time       `json:"createdAt"`
	LikesInfo       LikesInfo       `json:"likesInfo"`
}

type UserView struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
