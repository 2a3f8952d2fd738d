package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Token signing. Access and refresh tokens use separate secrets so that
	// a leak of one key never compromises the other kind.
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	// Refresh-token cookie lifetime. Advisory only: the signed expiry inside
	// the token is what verification actually enforces.
	RefreshCookieMaxAge time.Duration

	// Basic auth for admin write endpoints (blogs/posts/users management).
	AdminLogin    string
	AdminPassword string

	// Outbound email (registration / recovery codes)
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string
	ConfirmBaseURL string

	// Server
	Port        string
	CORSOrigins string
	Env         string
}

func Load() *Config {
	// Local development convenience; in production the environment is the
	// source of truth and no .env file exists.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "blogger_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", ""),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", ""),

		// Lifetimes are configured in whole minutes. Issuance and
		// verification both read these fields, never their own copies.
		AccessTokenTTL:  minutes(getEnv("ACCESS_TOKEN_TTL_MIN", "10"), 10),
		RefreshTokenTTL: minutes(getEnv("REFRESH_TOKEN_TTL_MIN", "10"), 10),

		RefreshCookieMaxAge: 7 * 24 * time.Hour,

		AdminLogin:    getEnv("ADMIN_LOGIN", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "noreply@blogger-platform.dev"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Blogger Platform"),
		ConfirmBaseURL: getEnv("CONFIRM_BASE_URL", "https://somesite.com"),

		Port:        getEnv("PORT", "6060"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		Env:         getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func minutes(s string, fallback int) time.Duration {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Minute
}
