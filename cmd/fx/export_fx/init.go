package export_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"betafeedback/internal/config"
	"betafeedback/internal/infra"
	"betafeedback/internal/repositories"
	"betafeedback/internal/services"
)

var Module = fx.Provide(provideArchiver, provideExportService)

func provideArchiver(cfg *config.Config, logger *zap.Logger) (services.Archiver, error) {
	if !cfg.ArchiveEnabled() {
		logger.Info("Export archive disabled, MINIO_ENDPOINT not set")
		return infra.DisabledArchiver{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	archiver, err := infra.NewMinIOArchiver(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Export archive enabled",
		zap.String("endpoint", cfg.MinIOEndpoint), zap.String("bucket", cfg.MinIOBucket))
	return archiver, nil
}

func provideExportService(feedbackRepo repositories.FeedbackRepositoryInterface, archiver services.Archiver, logger *zap.Logger) services.ExportServiceInterface {
	return services.NewExportService(feedbackRepo, archiver, logger)
}
