package scheduler_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"betafeedback/internal/config"
	"betafeedback/internal/infra"
	"betafeedback/internal/services"
)

var Module = fx.Provide(provideScheduler)

// provideScheduler picks the analytics queue named by ANALYTICS_QUEUE. The
// background variants start with the app and drain on shutdown.
func provideScheduler(lc fx.Lifecycle, cfg *config.Config, recomputer services.AnalyticsRecomputer, logger *zap.Logger) (services.AnalyticsScheduler, error) {
	switch cfg.AnalyticsQueue {
	case config.QueueSync:
		return services.NewSyncScheduler(recomputer, logger), nil

	case config.QueueRedis:
		client, err := infra.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		scheduler := services.NewRedisScheduler(client, cfg.RedisQueueKey, recomputer, cfg.AnalyticsWorkers, logger)
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				scheduler.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				err := scheduler.Stop(ctx)
				if cerr := client.Close(); cerr != nil {
					logger.Warn("Error closing Redis client", zap.Error(cerr))
				}
				return err
			},
		})
		return scheduler, nil

	default:
		scheduler := services.NewAsyncScheduler(recomputer, cfg.AnalyticsWorkers, logger)
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				scheduler.Start()
				return nil
			},
			OnStop: scheduler.Stop,
		})
		return scheduler, nil
	}
}
