package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"betafeedback/internal/config"
	"betafeedback/internal/repositories"
	"betafeedback/pkg/memcache"
)

// SessionReaper deletes pending sessions that were never submitted once
// they are older than the configured TTL. Completed sessions are kept.
// Each tick also drops expired entries from the revoked token store.
type SessionReaper struct {
	sessionRepo repositories.SessionRepositoryInterface
	revoked     memcache.RevokedTokenStore
	ttl         time.Duration
	interval    time.Duration
	logger      *zap.Logger
	now         func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewSessionReaper(
	sessionRepo repositories.SessionRepositoryInterface,
	revoked memcache.RevokedTokenStore,
	cfg *config.Config,
	logger *zap.Logger,
) *SessionReaper {
	return &SessionReaper{
		sessionRepo: sessionRepo,
		revoked:     revoked,
		ttl:         cfg.SessionTTL,
		interval:    cfg.ReaperInterval,
		logger:      logger.Named("reaper"),
		now:         func() time.Time { return time.Now().UTC() },
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// ReapExpired removes expired pending sessions with their responses and
// returns how many sessions went. A zero TTL disables reaping.
func (r *SessionReaper) ReapExpired(ctx context.Context) (int64, error) {
	if r.ttl <= 0 {
		return 0, nil
	}
	cutoff := r.now().Add(-r.ttl)
	n, err := r.sessionRepo.DeleteExpiredPending(ctx, cutoff)
	if err != nil {
		return 0, storeError("reap sessions", err)
	}
	if n > 0 {
		r.logger.Info("Reaped abandoned sessions", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
	return n, nil
}

func (r *SessionReaper) Start() {
	if r.interval <= 0 {
		r.logger.Info("Session reaper disabled")
		close(r.done)
		return
	}
	go r.loop()
}

func (r *SessionReaper) loop() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if _, err := r.ReapExpired(ctx); err != nil {
				r.logger.Error("Session reaping failed", zap.Error(err))
			}
			cancel()
			if r.revoked != nil {
				if n := r.revoked.Sweep(); n > 0 {
					r.logger.Debug("Dropped expired token revocations", zap.Int("count", n))
				}
			}
		}
	}
}

func (r *SessionReaper) Stop(ctx context.Context) error {
	r.once.Do(func() { close(r.stop) })
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
