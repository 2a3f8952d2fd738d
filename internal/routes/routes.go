package routes

import (
	"time"

	"github.com/damirov/blogger-platform/internal/config"
	"github.com/damirov/blogger-platform/internal/handlers"
	"github.com/damirov/blogger-platform/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	securityHandler *handlers.SecurityHandler,
	blogHandler *handlers.BlogHandler,
	postHandler *handlers.PostHandler,
	commentHandler *handlers.CommentHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	testingHandler *handlers.TestingHandler,
) {
	// General API rate limiter: 60 req/min per IP
	app.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	app.Get("/health", healthHandler.Check)

	// Auth. The credential endpoints get a stricter limiter: 10 req/min.
	auth := app.Group("/auth")
	strict := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	auth.Post("/login", strict, authHandler.Login)
	auth.Post("/registration", strict, authHandler.Registration)
	auth.Post("/registration-confirmation", strict, authHandler.RegistrationConfirmation)
	auth.Post("/registration-email-resending", strict, authHandler.RegistrationEmailResending)
	auth.Post("/password-recovery", strict, authHandler.PasswordRecovery)
	auth.Post("/new-password", strict, authHandler.NewPassword)

	// Refresh and logout authenticate with the cookie, not the bearer token.
	auth.Post("/refresh-token", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", middleware.JWTProtected(cfg), authHandler.Me)

	// Device sessions (refresh-cookie gated)
	security := app.Group("/security")
	security.Get("/devices", securityHandler.ListDevices)
	security.Delete("/devices", securityHandler.RevokeOtherDevices)
	security.Delete("/devices/:deviceId", securityHandler.RevokeDevice)

	basic := middleware.BasicAdminAuth(cfg)
	bearer := middleware.JWTProtected(cfg)

	// Blogs (writes are admin-only)
	blogs := app.Group("/blogs")
	blogs.Get("/", blogHandler.List)
	blogs.Post("/", basic, blogHandler.Create)
	blogs.Get("/:id", blogHandler.Get)
	blogs.Put("/:id", basic, blogHandler.Update)
	blogs.Delete("/:id", basic, blogHandler.Delete)
	blogs.Get("/:blogId/posts", blogHandler.ListPosts)
	blogs.Post("/:blogId/posts", basic, blogHandler.CreatePost)

	// Posts
	posts := app.Group("/posts")
	posts.Get("/", postHandler.List)
	posts.Post("/", basic, postHandler.Create)
	posts.Get("/:id", postHandler.Get)
	posts.Put("/:id", basic, postHandler.Update)
	posts.Delete("/:id", basic, postHandler.Delete)
	posts.Get("/:postId/comments", postHandler.ListComments)
	posts.Post("/:postId/comments", bearer, postHandler.CreateComment)
	posts.Put("/:postId/like-status", bearer, postHandler.SetLikeStatus)

	// Comments
	comments := app.Group("/comments")
	comments.Get("/:id", commentHandler.Get)
	comments.Put("/:id", bearer, commentHandler.Update)
	comments.Delete("/:id", bearer, commentHandler.Delete)
	comments.Put("/:commentId/like-status", bearer, commentHandler.SetLikeStatus)

	// Admin user management
	users := app.Group("/users", basic)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Delete("/:id", userHandler.Delete)

	// E2E reset, never in production
	if cfg.Env != "production" {
		app.Delete("/testing/all-data", testingHandler.DropAllData)
	}
}
