package config_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"betafeedback/internal/config"
	"betafeedback/pkg/logging"
)

var Module = fx.Provide(provideConfig, provideLogger)

// EventLogger routes fx's own lifecycle events through the application logger.
var EventLogger = fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: logger.Named("fx")}
})

func provideConfig() (*config.Config, error) {
	return config.Load()
}

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(logging.Options{
		Dir:     cfg.LogDir,
		Level:   cfg.LogLevel,
		Console: !cfg.IsProduction(),
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}
