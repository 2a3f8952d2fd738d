package handlers

import (
	"github.com/damirov/blogger-platform/internal/database"
	"github.com/gofiber/fiber/v2"
)

// TestingHandler backs the e2e reset endpoint. It is only registered
// outside production.
type TestingHandler struct{}

func NewTestingHandler() *TestingHandler {
	return &TestingHandler{}
}

func (h *TestingHandler) DropAllData(c *fiber.Ctx) error {
	if err := database.Truncate(); err != nil {
		return serverError(c, "drop_all_data", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
