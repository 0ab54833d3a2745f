package logging

import (
	"context"

	"github.com/szmslab/quickzip/config"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewLoggerFromConfig),
	fx.Invoke(RegisterLoggerShutdown),
)

func NewLoggerFromConfig(cfg *config.Config) (*Logger, error) {
	return NewLogger(cfg.LogLevel)
}

func RegisterLoggerShutdown(lc fx.Lifecycle, logger *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync on a terminal or pipe returns EINVAL on Linux.
			_ = logger.Sync()
			return nil
		},
	})
}
