package logging

import (
	"log/slog"
	"time"

	"github.com/damirov/blogger-platform/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that deletes system_logs older than 30
// days and prunes refresh-token ledger entries past their expiry. Ledger
// pruning is a maintenance concern, deliberately off the request path.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sweep(db)
			case <-done:
				return
			}
		}
	}()
}

func sweep(db *gorm.DB) {
	logCutoff := time.Now().AddDate(0, 0, -30)
	result := db.Where("timestamp < ?", logCutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}

	result = db.Where("expires_at < ?", time.Now().UTC()).Delete(&models.RefreshToken{})
	if result.Error != nil {
		slog.Error("ledger pruning failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("expired ledger entries pruned", "deleted", result.RowsAffected)
	}
}
