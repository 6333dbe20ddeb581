package question_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"betafeedback/internal/config"
	"betafeedback/internal/repositories"
	"betafeedback/internal/services"
)

var Module = fx.Provide(
	provideQuestionRepo, provideQuestionService,
)

func provideQuestionRepo(db *gorm.DB) repositories.QuestionRepositoryInterface {
	return repositories.NewQuestionRepository(db)
}

func provideQuestionService(questionRepo repositories.QuestionRepositoryInterface, cfg *config.Config, logger *zap.Logger) services.QuestionServiceInterface {
	return services.NewQuestionService(questionRepo, cfg, logger)
}
