package dto

type CreateBlogRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WebsiteURL  string `json:"websiteUrl"`
}

type UpdateBlogRequest = CreateBlogRequest

type CreatePostRequest struct {
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	Content          string `json:"content"`
	BlogID           string `json:"blogId"`
}

type UpdatePostRequest = CreatePostRequest

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type LikeRequest struct {
	LikeStatus string `json:"likeStatus"`
}
