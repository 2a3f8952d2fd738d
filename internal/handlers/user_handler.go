package handlers

import (
	"errors"

	"github.com/damirov/blogger-platform/internal/dto"
	"github.com/damirov/blogger-platform/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserHandler serves the basic-auth admin user management endpoints.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	q := pageQuery(c)
	users, total, err := h.users.List(q, c.Query("searchLoginTerm"), c.Query("searchEmailTerm"))
	if err != nil {
		return serverError(c, "list_users", err)
	}

	views := make([]dto.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, dto.UserView{
			ID:        u.ID.String(),
			Login:     u.Login,
			Email:     u.Email,
			CreatedAt: u.CreatedAt,
		})
	}
	return c.JSON(dto.NewPage(views, q.PageNumber, q.PageSize, total))
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req dto.RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}
	if len(req.Login) < 3 || len(req.Login) > 10 {
		return badRequest(c, "login must be 3-10 characters", "login")
	}
	if len(req.Password) < 6 || len(req.Password) > 20 {
		return badRequest(c, "password must be 6-20 characters", "password")
	}

	user, err := h.users.Create(req.Login, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoginTaken):
			return badRequest(c, "User with this login already exists", "login")
		case errors.Is(err, services.ErrEmailTaken):
			return badRequest(c, "User with this email already exists", "email")
		}
		return serverError(c, "create_user", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UserView{
		ID:        user.ID.String(),
		Login:     user.Login,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("User not found", "id"))
	}

	if err := h.users.Delete(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("User not found", "id"))
		}
		return serverError(c, "delete_user", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
