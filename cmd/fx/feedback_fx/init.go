package feedback_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"betafeedback/internal/config"
	"betafeedback/internal/repositories"
	"betafeedback/internal/services"
)

var Module = fx.Provide(
	provideFeedbackRepo, provideSessionRepo, provideSessionService, provideFeedbackService,
)

func provideFeedbackRepo(db *gorm.DB) repositories.FeedbackRepositoryInterface {
	return repositories.NewFeedbackRepository(db)
}

func provideSessionRepo(db *gorm.DB) repositories.SessionRepositoryInterface {
	return repositories.NewSessionRepository(db)
}

func provideSessionService(sessionRepo repositories.SessionRepositoryInterface, feedbackRepo repositories.FeedbackRepositoryInterface, logger *zap.Logger) services.SessionServiceInterface {
	return services.NewSessionService(sessionRepo, feedbackRepo, logger)
}

func provideFeedbackService(
	sessionRepo repositories.SessionRepositoryInterface,
	questionRepo repositories.QuestionRepositoryInterface,
	feedbackRepo repositories.FeedbackRepositoryInterface,
	scheduler services.AnalyticsScheduler,
	cfg *config.Config,
	logger *zap.Logger,
) services.FeedbackServiceInterface {
	return services.NewFeedbackService(sessionRepo, questionRepo, feedbackRepo, scheduler, cfg, logger)
}
