package reaper_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"betafeedback/internal/config"
	"betafeedback/internal/repositories"
	"betafeedback/internal/services"
	mem "betafeedback/pkg/memcache"
)

var Module = fx.Options(
	fx.Provide(provideSessionReaper),
	fx.Invoke(registerReaper),
)

func provideSessionReaper(
	sessionRepo repositories.SessionRepositoryInterface,
	revoked mem.RevokedTokenStore,
	cfg *config.Config,
	logger *zap.Logger,
) *services.SessionReaper {
	return services.NewSessionReaper(sessionRepo, revoked, cfg, logger)
}

func registerReaper(lc fx.Lifecycle, reaper *services.SessionReaper) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			reaper.Start()
			return nil
		},
		OnStop: reaper.Stop,
	})
}
