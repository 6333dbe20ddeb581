package dashboard

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"betafeedback/internal/repositories"
	"betafeedback/internal/services"
)

var Module = fx.Provide(
	provideDashboardRepo, provideDashboardService, provideRecomputer,
)

func provideDashboardRepo(db *gorm.DB) repositories.DashboardRepository {
	return repositories.NewDashboardRepository(db)
}

func provideDashboardService(
	dashboardRepo repositories.DashboardRepository,
	feedbackRepo repositories.FeedbackRepositoryInterface,
	sessionRepo repositories.SessionRepositoryInterface,
	logger *zap.Logger,
) services.DashboardServiceInterface {
	return services.NewDashboardService(dashboardRepo, feedbackRepo, sessionRepo, logger)
}

func provideRecomputer(dashboardService services.DashboardServiceInterface) services.AnalyticsRecomputer {
	return dashboardService
}
