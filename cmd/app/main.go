package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"betafeedback/cmd/fx/account_fx"
	"betafeedback/cmd/fx/config_fx"
	"betafeedback/cmd/fx/controllers_fx"
	"betafeedback/cmd/fx/dashboard"
	"betafeedback/cmd/fx/db_fx"
	"betafeedback/cmd/fx/export_fx"
	"betafeedback/cmd/fx/feedback_fx"
	"betafeedback/cmd/fx/memcache_fx"
	"betafeedback/cmd/fx/question_fx"
	"betafeedback/cmd/fx/reaper_fx"
	"betafeedback/cmd/fx/scheduler_fx"
	"betafeedback/internal/api"
	"betafeedback/internal/api/controllers"
	"betafeedback/internal/config"
	"betafeedback/pkg/middleware"
)

func main() {
	app := fx.New(
		appOptions(),
		config_fx.EventLogger,
	)

	app.Run()
}

func appOptions() fx.Option {
	return fx.Options(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		account_fx.Module,
		question_fx.Module,
		feedback_fx.Module,
		dashboard.Module,
		scheduler_fx.Module,
		export_fx.Module,
		reaper_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)
}

type routerParams struct {
	fx.In

	Config        *config.Config
	Logger        *zap.Logger
	Authenticator middleware.Authenticator

	Health    *controllers.HealthController
	Feedback  *controllers.FeedbackController
	Account   *controllers.AccountController
	Dashboard *controllers.DashboardController
	Question  *controllers.QuestionController
	Export    *controllers.ExportController
}

func ProvideRouter(p routerParams) (*gin.Engine, error) {
	return api.NewRouter(p.Config, p.Logger, p.Authenticator, api.Handlers{
		Health:    p.Health,
		Feedback:  p.Feedback,
		Account:   p.Account,
		Dashboard: p.Dashboard,
		Question:  p.Question,
		Export:    p.Export,
	})
}

func StartServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("Starting HTTP server",
				zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped unexpectedly", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
