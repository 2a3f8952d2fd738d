package handlers

import (
	"errors"

	"github.com/damirov/blogger-platform/internal/dto"
	"github.com/damirov/blogger-platform/internal/services"
	"github.com/gofiber/fiber/v2"
)

// SecurityHandler exposes the device-session endpoints. All of them
// authenticate with the refresh cookie, not the bearer token: managing
// sessions is a privilege of a live session.
type SecurityHandler struct {
	sessions *services.SessionService
}

func NewSecurityHandler(sessions *services.SessionService) *SecurityHandler {
	return &SecurityHandler{sessions: sessions}
}

func (h *SecurityHandler) ListDevices(c *fiber.Ctx) error {
	devices, err := h.sessions.ListDevices(c.Cookies(refreshCookieName))
	if err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			return unauthorized(c, "Invalid or expired refresh token", "refreshToken")
		}
		return serverError(c, "list_devices", err)
	}
	return c.JSON(devices)
}

func (h *SecurityHandler) RevokeOtherDevices(c *fiber.Ctx) error {
	err := h.sessions.RevokeOtherDevices(c.Cookies(refreshCookieName))
	if err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			return unauthorized(c, "Invalid or expired refresh token", "refreshToken")
		}
		return serverError(c, "revoke_other_devices", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SecurityHandler) RevokeDevice(c *fiber.Ctx) error {
	deviceID := c.Params("deviceId")

	err := h.sessions.RevokeDevice(c.Cookies(refreshCookieName), deviceID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRefreshToken):
			return unauthorized(c, "Invalid or expired refresh token", "refreshToken")
		case errors.Is(err, services.ErrDeviceForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.NewAPIError("Forbidden", ""))
		case errors.Is(err, services.ErrDeviceNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.NewAPIError("Device not found", ""))
		}
		return serverError(c, "revoke_device", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
