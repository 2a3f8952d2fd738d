package middleware

import (
	"crypto/subtle"

	"github.com/damirov/blogger-platform/internal/config"
	"github.com/damirov/blogger-platform/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
)

// BasicAdminAuth gates admin write endpoints (blog/post/user management)
// behind HTTP Basic credentials from config.
func BasicAdminAuth(cfg *config.Config) fiber.Handler {
	return basicauth.New(basicauth.Config{
		Authorizer: func(login, password string) bool {
			loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(cfg.AdminLogin)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPassword)) == 1
			return loginOK && passOK
		},
		Unauthorized: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(
				dto.NewAPIError("Unauthorized", "authorization"),
			)
		},
	})
}
