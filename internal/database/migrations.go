package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes the reminder and listing queries
// rely on. Single-column indexes are declared on the models.
func AddIndexes(db *gorm.DB, logger *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Due-task scan and expiry sweep
		{"tasks", "idx_tasks_status_due_date", "status, due_date"},

		// Owner listings ordered by creation time
		{"tasks", "idx_tasks_user_created_at", "user_id, created_at"},
		{"user_activities", "idx_user_activities_user_created_at", "user_id, created_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			logger.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Info("Created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns))
	}

	return nil
}
