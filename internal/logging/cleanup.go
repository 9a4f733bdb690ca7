package logging

import (
	"log/slog"
	"time"

	"github.com/thienng-it/note-hub-sub010/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that deletes security_events older than 30 days.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -30)
				result := db.Where("timestamp < ?", cutoff).Delete(&models.SecurityEvent{})
				if result.Error != nil {
					slog.Error("security event cleanup failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("security event cleanup completed", "deleted", result.RowsAffected)
				}
			case <-done:
				return
			}
		}
	}()
}
