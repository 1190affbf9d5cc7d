package bootstrap

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/mo-amir99/course-server-go/pkg/config"
	"github.com/mo-amir99/course-server-go/pkg/database/migrations"
)

// ApplyDatabaseMigrations adds the check constraints on top of the AutoMigrate schema.
// Both steps are gated by LMS_DB_RUN_MIGRATIONS; otherwise the schema is assumed current.
func ApplyDatabaseMigrations(db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.Database.RunMigrations {
		logger.Info("schema migrations disabled, expecting tables to exist")
		return nil
	}

	if err := migrations.Run(db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
