package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/damirov/blogger-platform/internal/config"
	"github.com/damirov/blogger-platform/internal/services"
	"github.com/gofiber/fiber/v2"
)

func TestJWTProtected(t *testing.T) {
	cfg := &config.Config{
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
		AccessTokenTTL:     10 * time.Minute,
		RefreshTokenTTL:    10 * time.Minute,
	}
	tokens := services.NewTokenService(cfg)

	app := fiber.New()
	app.Get("/protected", JWTProtected(cfg), func(c *fiber.Ctx) error {
		userID, err := UserIDFromContext(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"userId": userID.String(), "login": LoginFromContext(c)})
	})

	access, err := tokens.IssueAccess("0c4b9a02-6f3a-47c4-9f9e-1f6f2b6a9c11", "alice")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	refresh, err := tokens.IssueRefresh("0c4b9a02-6f3a-47c4-9f9e-1f6f2b6a9c11", "alice", "device-1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid access token", "Bearer " + access, http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		// Refresh tokens are signed with the other secret and must not pass.
		{"refresh token as bearer", "Bearer " + refresh.Token, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
