package migrations

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"whatsapp_dashboard/internal/models"
)

// RunMigrations creates the fallback queue table and the index the replay scan uses.
func RunMigrations(db *gorm.DB) error {
	slog.Info("running database migrations")

	if err := db.AutoMigrate(&models.FallbackEntry{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	table := models.FallbackEntry{}.TableName()
	stmt := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS idx_%s_replay ON %s (id) WHERE synced_at IS NULL AND dead_at IS NULL",
		table, table,
	)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create replay index: %w", err)
	}

	slog.Info("database migrations completed")
	return nil
}
