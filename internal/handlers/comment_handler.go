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

type CommentHandler struct {
	comments *services.CommentService
	tokens   *services.TokenService
}

func NewCommentHandler(comments *services.CommentService, tokens *services.TokenService) *CommentHandler {
	return &CommentHandler{comments: comments, tokens: tokens}
}

func (h *CommentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Comment not found", "id"))
	}

	comment, err := h.comments.Get(id, viewerID(c, h.tokens))
	if err != nil {
		if errors.Is(err, services.ErrCommentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Comment not found", "id"))
		}
		return serverError(c, "get_comment", err)
	}
	return c.JSON(comment)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Comment not found", "id"))
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}
	if len(req.Content) < 15 || len(req.Content) > 300 {
		return badRequest(c, "content must be 15-300 characters", "content")
	}

	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return unauthorized(c, "Invalid or expired access token", "authorization")
	}

	if err := h.comments.Update(id, userID, req.Content); err != nil {
		switch {
		case errors.Is(err, services.ErrCommentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Comment not found", "id"))
		case errors.Is(err, services.ErrNotCommentOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.NewAPIError("Forbidden", ""))
		}
		return serverError(c, "update_comment", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Comment not found", "id"))
	}

	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return unauthorized(c, "Invalid or expired access token", "authorization")
	}

	if err := h.comments.Delete(id, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrCommentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Comment not found", "id"))
		case errors.Is(err, services.ErrNotCommentOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.NewAPIError("Forbidden", ""))
		}
		return serverError(c, "delete_comment", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CommentHandler) SetLikeStatus(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Comment not found", "commentId"))
	}

	var req dto.LikeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}
	status := models.LikeStatus(req.LikeStatus)
	if !status.Valid() {
		return badRequest(c, "likeStatus must be None, Like or Dislike", "likeStatus")
	}

	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return unauthorized(c, "Invalid or expired access token", "authorization")
	}

	if err := h.comments.SetLikeStatus(commentID, userID, status); err != nil {
		if errors.Is(err, services.ErrCommentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Comment not found", "commentId"))
		}
		return serverError(c, "set_comment_like", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
