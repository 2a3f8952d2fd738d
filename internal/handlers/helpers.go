package handlers

import (
	"log/slog"
	"strings"
	"time"

	"github.com/damirov/blogger-platform/internal/config"
	"github.com/damirov/blogger-platform/internal/dto"
	"github.com/damirov/blogger-platform/internal/services"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const refreshCookieName = "refreshToken"

func pageQuery(c *fiber.Ctx) dto.PageQuery {
	q := dto.PageQuery{
		SortBy:        c.Query("sortBy", "createdAt"),
		SortDirection: c.Query("sortDirection", "desc"),
		PageNumber:    c.QueryInt("pageNumber", 1),
		PageSize:      c.QueryInt("pageSize", 10),
	}
	if q.PageNumber < 1 {
		q.PageNumber = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 10
	}
	if q.SortDirection != "asc" {
		q.SortDirection = "desc"
	}
	return q
}

// viewerID resolves the optional bearer token on public read endpoints, so
// the response can carry the caller's own like status. Any invalid token is
// treated as an anonymous request, not an error.
func viewerID(c *fiber.Ctx, tokens *services.TokenService) *uuid.UUID {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	claims, err := tokens.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &id
}

func setRefreshCookie(c *fiber.Ctx, cfg *config.Config, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   true,
		Path:     "/",
		MaxAge:   int(cfg.RefreshCookieMaxAge.Seconds()),
	})
}

func clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		HTTPOnly: true,
		Secure:   true,
		Path:     "/",
		Expires:  time.Unix(0, 0),
	})
}

// serverError reports an unexpected failure and answers with a bare 500. The
// client learns nothing beyond the status; the details go to logs and Sentry.
func serverError(c *fiber.Ctx, action string, err error) error {
	slog.Error("request failed", "action", action, "error", err,
		"method", c.Method(), "path", c.Path(), "request_id", requestID(c))
	sentry.CaptureException(err)
	return c.Status(fiber.StatusInternalServerError).JSON(
		dto.NewAPIError("Internal server error", ""),
	)
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

func badRequest(c *fiber.Ctx, message, field string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(message, field))
}

func unauthorized(c *fiber.Ctx, message, field string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.NewAPIError(message, field))
}
