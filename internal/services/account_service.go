package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"betafeedback/internal/config"
	"betafeedback/internal/models/request_models"
	"betafeedback/internal/models/response_models"
	"betafeedback/pkg/memcache"
	"betafeedback/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, req request_models.LoginRequest) (*response_models.LoginResponse, error)
	// Authenticate checks signature, expiry and revocation but not the role.
	Authenticate(token string) (*utils.Claims, error)
	Verify(token string) (*response_models.TokenInfo, error)
	Logout(claims *utils.Claims) error
}

type AccountService struct {
	tokens       *utils.TokenManager
	revoked      memcache.RevokedTokenStore
	passwordHash string
	userHashes   map[string]string
	failureDelay time.Duration
	logger       *zap.Logger
}

// NewAccountService hashes the configured admin secrets once so plain
// passwords are not kept around after startup.
func NewAccountService(
	cfg *config.Config,
	tokens *utils.TokenManager,
	revoked memcache.RevokedTokenStore,
	logger *zap.Logger,
) (AccountServiceInterface, error) {
	s := &AccountService{
		tokens:       tokens,
		revoked:      revoked,
		userHashes:   make(map[string]string, len(cfg.AdminUsers)),
		failureDelay: cfg.LoginFailureDelay,
		logger:       logger.Named("admin"),
	}

	if cfg.AdminPassword != "" {
		hash, err := utils.HashPassword(cfg.AdminPassword)
		if err != nil {
			return nil, err
		}
		s.passwordHash = hash
	}
	for email, password := range cfg.AdminUsers {
		hash, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		s.userHashes[strings.ToLower(strings.TrimSpace(email))] = hash
	}
	return s, nil
}

func (s *AccountService) Login(ctx context.Context, req request_models.LoginRequest) (*response_models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash := s.passwordHash
	if email != "" {
		hash = s.userHashes[email]
	}
	if hash == "" || utils.ComparePasswords(hash, req.Password) != nil {
		s.logger.Warn("Admin login failed", zap.Bool("with_email", email != ""))
		return nil, s.reject(ctx)
	}

	token, claims, err := s.tokens.CreateToken(utils.RoleAdmin, email)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Admin logged in", zap.String("token_id", claims.ID))
	return &response_models.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// reject waits out the failure delay before answering. A caller that goes
// away during the wait still gets ErrInvalidCredentials, never a ctx error.
func (s *AccountService) reject(ctx context.Context) error {
	if s.failureDelay <= 0 {
		return utils.ErrInvalidCredentials
	}
	timer := time.NewTimer(s.failureDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return utils.ErrInvalidCredentials
	case <-ctx.Done():
		return utils.ErrInvalidCredentials
	}
}

func (s *AccountService) Authenticate(token string) (*utils.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if s.revoked.IsRevoked(claims.ID) {
		return nil, utils.ErrTokenRevoked
	}
	return claims, nil
}

func (s *AccountService) Verify(token string) (*response_models.TokenInfo, error) {
	claims, err := s.Authenticate(token)
	if err != nil {
		return nil, err
	}
	if claims.Role != utils.RoleAdmin {
		return nil, utils.ErrForbidden
	}
	return &response_models.TokenInfo{
		Valid:     true,
		Role:      claims.Role,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

func (s *AccountService) Logout(claims *utils.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return utils.ErrInvalidToken
	}
	s.revoked.Revoke(claims.ID, claims.ExpiresAt.Time)
	s.logger.Info("Admin token revoked", zap.String("token_id", claims.ID))
	return nil
}
