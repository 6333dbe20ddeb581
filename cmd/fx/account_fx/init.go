package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"betafeedback/internal/config"
	"betafeedback/internal/services"
	mem "betafeedback/pkg/memcache"
	"betafeedback/pkg/middleware"
	"betafeedback/pkg/utils"
)

var Module = fx.Provide(
	provideTokenManager, provideAccountService, provideAuthenticator)

func provideTokenManager(cfg *config.Config) *utils.TokenManager {
	return utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
}

func provideAccountService(cfg *config.Config, tokens *utils.TokenManager, revoked mem.RevokedTokenStore, logger *zap.Logger) (services.AccountServiceInterface, error) {
	return services.NewAccountService(cfg, tokens, revoked, logger)
}

func provideAuthenticator(accountService services.AccountServiceInterface) middleware.Authenticator {
	return accountService
}
