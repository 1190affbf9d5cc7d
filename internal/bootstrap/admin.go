package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/pkg/config"
)

// EnsureDefaultAdmin creates the configured administrator on first start.
// Nothing happens when LMS_ADMIN_EMAIL or LMS_ADMIN_PASSWORD is unset.
func EnsureDefaultAdmin(ctx context.Context, users *user.Service, cfg config.AdminConfig, logger *slog.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Info("default admin not configured")
		return nil
	}

	created, err := users.EnsureAdmin(ctx, cfg.Email, cfg.Password, cfg.FullName)
	if err != nil {
		return fmt.Errorf("ensure default admin: %w", err)
	}

	if created {
		logger.Info("default admin created", slog.String("email", user.NormalizeEmail(cfg.Email)))
	} else {
		logger.Info("default admin already present", slog.String("email", user.NormalizeEmail(cfg.Email)))
	}
	return nil
}
