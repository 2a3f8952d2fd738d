package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/damirov/blogger-platform/internal/config"
	"github.com/damirov/blogger-platform/internal/dto"
	"github.com/damirov/blogger-platform/internal/services"
	"github.com/gofiber/fiber/v2"
)

func testTokens() *services.TokenService {
	return services.NewTokenService(&config.Config{
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
		AccessTokenTTL:     10 * time.Minute,
		RefreshTokenTTL:    10 * time.Minute,
	})
}

func TestPageQueryNormalization(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(pageQuery(c))
	})

	tests := []struct {
		name     string
		url      string
		wantPage int
		wantSize int
		wantDir  string
	}{
		{"defaults", "/", 1, 10, "desc"},
		{"explicit", "/?pageNumber=3&pageSize=25&sortDirection=asc", 3, 25, "asc"},
		{"zero page clamps", "/?pageNumber=0", 1, 10, "desc"},
		{"oversized page size clamps", "/?pageSize=500", 1, 10, "desc"},
		{"bad direction falls back", "/?sortDirection=sideways", 1, 10, "desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.url, nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			var q dto.PageQuery
			if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if q.PageNumber != tt.wantPage {
				t.Errorf("PageNumber = %d, want %d", q.PageNumber, tt.wantPage)
			}
			if q.PageSize != tt.wantSize {
				t.Errorf("PageSize = %d, want %d", q.PageSize, tt.wantSize)
			}
			if q.SortDirection != tt.wantDir {
				t.Errorf("SortDirection = %q, want %q", q.SortDirection, tt.wantDir)
			}
		})
	}
}

func TestViewerID(t *testing.T) {
	tokens := testTokens()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if id := viewerID(c, tokens); id != nil {
			return c.SendString(id.String())
		}
		return c.SendString("anonymous")
	})

	access, err := tokens.IssueAccess("0c4b9a02-6f3a-47c4-9f9e-1f6f2b6a9c11", "alice")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", "anonymous"},
		{"valid bearer", "Bearer " + access, "0c4b9a02-6f3a-47c4-9f9e-1f6f2b6a9c11"},
		{"garbage bearer", "Bearer not-a-jwt", "anonymous"},
		{"wrong scheme", "Basic abc", "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			buf := make([]byte, 64)
			n, _ := resp.Body.Read(buf)
			if got := string(buf[:n]); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRefreshCookieAttributes(t *testing.T) {
	cfg := &config.Config{RefreshCookieMaxAge: 7 * 24 * time.Hour}

	app := fiber.New()
	app.Get("/set", func(c *fiber.Ctx) error {
		setRefreshCookie(c, cfg, "token-value")
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/clear", func(c *fiber.Ctx) error {
		clearRefreshCookie(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	cookie := findCookie(t, resp, refreshCookieName)
	if cookie.Value != "token-value" {
		t.Errorf("cookie value = %q, want %q", cookie.Value, "token-value")
	}
	if !cookie.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if !cookie.Secure {
		t.Error("cookie is not Secure")
	}
	if cookie.Path != "/" {
		t.Errorf("cookie path = %q, want %q", cookie.Path, "/")
	}
	if want := int((7 * 24 * time.Hour).Seconds()); cookie.MaxAge != want {
		t.Errorf("cookie max-age = %d, want %d", cookie.MaxAge, want)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/clear", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	cookie = findCookie(t, resp, refreshCookieName)
	if cookie.Value != "" {
		t.Errorf("cleared cookie still carries value %q", cookie.Value)
	}
	if !cookie.Expires.Before(time.Now()) {
		t.Errorf("cleared cookie expires at %v, want a past date", cookie.Expires)
	}
}

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("response has no %q cookie", name)
	return nil
}
