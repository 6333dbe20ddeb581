package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"betafeedback/internal/api/controllers"
	"betafeedback/internal/config"
	"betafeedback/pkg/middleware"
	"betafeedback/pkg/utils"
)

type Handlers struct {
	Health    *controllers.HealthController
	Feedback  *controllers.FeedbackController
	Account   *controllers.AccountController
	Dashboard *controllers.DashboardController
	Question  *controllers.QuestionController
	Export    *controllers.ExportController
}

// NewRouter builds the gin engine with the middleware chain and every route.
func NewRouter(cfg *config.Config, logger *zap.Logger, auth middleware.Authenticator, h Handlers) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := utils.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorDetails(cfg.IsDevelopment()))

	RegisterRoutes(r, auth, h)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, auth middleware.Authenticator, h Handlers) {
	r.GET("/health", h.Health.Health)

	feedbackGroup := r.Group("/feedback")
	feedbackGroup.GET("/health", h.Feedback.Health)
	feedbackGroup.POST("/start", h.Feedback.StartSession)
	feedbackGroup.GET("/questions", h.Feedback.GetQuestions)
	feedbackGroup.POST("/submit", h.Feedback.SubmitFeedback)
	feedbackGroup.GET("/session/:id", h.Feedback.GetSession)

	r.POST("/admin/login", h.Account.Login)

	admin := r.Group("/admin",
		middleware.JWTAuthMiddleware(auth),
		middleware.RoleMiddleware(utils.RoleAdmin))
	admin.GET("/verify", h.Account.Verify)
	admin.POST("/logout", h.Account.Logout)

	admin.GET("/analytics", h.Dashboard.GetAnalytics)
	admin.POST("/analytics/update", h.Dashboard.UpdateAnalytics)
	admin.GET("/analytics/by-category", h.Dashboard.GetCategoryAnalytics)
	admin.GET("/analytics/trends", h.Dashboard.GetTrends)
	admin.GET("/analytics/performance", h.Dashboard.GetPerformance)
	admin.GET("/analytics/completion", h.Dashboard.GetCompletion)
	admin.GET("/dashboard-stats", h.Dashboard.GetDashboardStats)
	admin.GET("/sessions", h.Dashboard.ListSessions)
	admin.GET("/responses", h.Dashboard.ListResponses)
	admin.GET("/export", h.Export.Export)

	questions := admin.Group("/questions")
	questions.GET("", h.Question.ListQuestions)
	questions.POST("", h.Question.CreateQuestion)
	questions.PUT("/:id", h.Question.UpdateQuestion)
	questions.DELETE("/:id", h.Question.DeleteQuestion)
	questions.PATCH("/:id/toggle", h.Question.ToggleQuestion)
}
