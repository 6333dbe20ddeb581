package controllers_fx

import (
	"go.uber.org/fx"

	"betafeedback/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewHealthController),
	fx.Provide(controllers.NewFeedbackController),
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewDashboardController),
	fx.Provide(controllers.NewQuestionController),
	fx.Provide(controllers.NewExportController))
