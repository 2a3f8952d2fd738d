package middleware

import (
	"github.com/damirov/blogger-platform/internal/config"
	"github.com/damirov/blogger-platform/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTProtected gates a route on a valid bearer access token. The signing key
// is the access secret from config, the same value TokenService issues with,
// so the two paths can never disagree on key or lifetime.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.AccessTokenSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(
				dto.NewAPIError("Invalid or expired access token", "authorization"),
			)
		},
	})
}

// UserIDFromContext extracts the authenticated user's id from the verified
// bearer claims jwtware put in context.
func UserIDFromContext(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	sub, ok := claims["userId"].(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return uuid.Parse(sub)
}

// LoginFromContext extracts the authenticated user's login from bearer claims.
func LoginFromContext(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	login, _ := claims["userLogin"].(string)
	return login
}
