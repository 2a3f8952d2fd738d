package handlers

import (
	"errors"

	"github.com/damirov/blogger-platform/internal/dto"
	"github.com/damirov/blogger-platform/internal/middleware"
	"github.com/damirov/blogger-platform/internal/models"
	"github.com/damirov/blogger-platform/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PostHandler struct {
	posts    *services.PostService
	comments *services.CommentService
	auth     *services.AuthService
	tokens   *services.TokenService
}

func NewPostHandler(posts *services.PostService, comments *services.CommentService, auth *services.AuthService, tokens *services.TokenService) *PostHandler {
	return &PostHandler{posts: posts, comments: comments, auth: auth, tokens: tokens}
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	q := pageQuery(c)
	page, err := h.posts.List(q, nil, viewerID(c, h.tokens))
	if err != nil {
		return serverError(c, "list_posts", err)
	}
	return c.JSON(page)
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}

	post, err := h.posts.Create(req)
	if err != nil {
		if errors.Is(err, services.ErrBlogNotFound) {
			return badRequest(c, "Invalid blogId", "blogId")
		}
		return serverError(c, "create_post", err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Post not found", "id"))
	}

	post, err := h.posts.Get(id, viewerID(c, h.tokens))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Post not found", "id"))
		}
		return serverError(c, "get_post", err)
	}
	return c.JSON(post)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Post not found", "id"))
	}

	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}

	if err := h.posts.Update(id, req); err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Post not found", "id"))
		case errors.Is(err, services.ErrBlogNotFound):
			return badRequest(c, "Invalid blogId", "blogId")
		}
		return serverError(c, "update_post", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Post not found", "id"))
	}

	if err := h.posts.Delete(id); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Post not found", "id"))
		}
		return serverError(c, "delete_post", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) ListComments(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Invalid postId", "postId"))
	}

	q := pageQuery(c)
	page, err := h.comments.ListByPost(postID, q, viewerID(c, h.tokens))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Invalid postId", "postId"))
		}
		return serverError(c, "list_post_comments", err)
	}
	return c.JSON(page)
}

func (h *PostHandler) CreateComment(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Invalid postId", "postId"))
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}
	if len(req.Content) < 15 || len(req.Content) > 300 {
		return badRequest(c, "content must be 15-300 characters", "content")
	}

	user, err := h.currentUser(c)
	if err != nil {
		return unauthorized(c, "Invalid or expired access token", "authorization")
	}

	comment, err := h.comments.Create(postID, user, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Invalid postId", "postId"))
		}
		return serverError(c, "create_comment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *PostHandler) SetLikeStatus(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Post not found", "postId"))
	}

	var req dto.LikeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}
	status := models.LikeStatus(req.LikeStatus)
	if !status.Valid() {
		return badRequest(c, "likeStatus must be None, Like or Dislike", "likeStatus")
	}

	user, err := h.currentUser(c)
	if err != nil {
		return unauthorized(c, "Invalid or expired access token", "authorization")
	}

	if err := h.posts.SetLikeStatus(postID, user, status); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Post not found", "postId"))
		}
		return serverError(c, "set_post_like", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return nil, err
	}
	return h.auth.UserByID(userID)
}
