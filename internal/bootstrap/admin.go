package bootstrap

import (
	"context"
	"log/slog"

	"github.com/mo-amir99/coursehub-server-go/internal/features/account"
	"github.com/mo-amir99/coursehub-server-go/pkg/config"
)

// EnsureDefaultAdmin creates or synchronizes the configured admin. Failures are logged
// and do not stop startup.
func EnsureDefaultAdmin(ctx context.Context, accounts *account.Service, cfg config.AdminConfig, logger *slog.Logger) {
	if err := accounts.EnsureAdmin(ctx, cfg); err != nil {
		logger.Error("ensure default admin failed", slog.String("error", err.Error()))
	}
}
