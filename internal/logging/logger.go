package logging

import (
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
// Development gets DEBUG, everything else INFO.
func Setup(env string) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: LevelFor(env),
	})
	slog.SetDefault(slog.New(handler))
}

// LevelFor maps the APP_ENV value onto a log level.
func LevelFor(env string) slog.Level {
	if env == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
