package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"betafeedback/internal/models/db_models"
)

const recomputeTimeout = 2 * time.Minute

// AnalyticsRecomputer rebuilds the analytics summaries.
type AnalyticsRecomputer interface {
	RecomputeAnalytics(ctx context.Context) ([]db_models.AnalyticsSummary, error)
}

// AnalyticsScheduler asks for a recompute without waiting for it. Failures
// are logged and never reach the caller.
type AnalyticsScheduler interface {
	Schedule(reason string)
}

func runRecompute(ctx context.Context, r AnalyticsRecomputer, logger *zap.Logger, reason string) {
	ctx, cancel := context.WithTimeout(ctx, recomputeTimeout)
	defer cancel()

	start := time.Now()
	summaries, err := r.RecomputeAnalytics(ctx)
	if err != nil {
		logger.Error("Analytics recompute failed", zap.String("reason", reason), zap.Error(err))
		return
	}
	logger.Debug("Analytics recomputed",
		zap.String("reason", reason),
		zap.Int("questions", len(summaries)),
		zap.Duration("took", time.Since(start)))
}

// ---------- Sync ----------

// SyncScheduler recomputes inline on the calling goroutine.
type SyncScheduler struct {
	recomputer AnalyticsRecomputer
	logger     *zap.Logger
}

func NewSyncScheduler(recomputer AnalyticsRecomputer, logger *zap.Logger) *SyncScheduler {
	return &SyncScheduler{recomputer: recomputer, logger: logger.Named("analytics")}
}

func (s *SyncScheduler) Schedule(reason string) {
	runRecompute(context.Background(), s.recomputer, s.logger, reason)
}

// ---------- In-process ----------

// AsyncScheduler runs recomputes on background workers. The queue holds a
// single pending request: a rebuild covers every submission before it, so
// requests that arrive while one is queued are merged into it.
type AsyncScheduler struct {
	recomputer AnalyticsRecomputer
	logger     *zap.Logger
	workers    int

	jobs   chan string
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	start  sync.Once
}

func NewAsyncScheduler(recomputer AnalyticsRecomputer, workers int, logger *zap.Logger) *AsyncScheduler {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AsyncScheduler{
		recomputer: recomputer,
		logger:     logger.Named("analytics"),
		workers:    workers,
		jobs:       make(chan string, 1),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *AsyncScheduler) Schedule(reason string) {
	select {
	case s.jobs <- reason:
	default:
		s.logger.Debug("Analytics recompute already queued", zap.String("reason", reason))
	}
}

func (s *AsyncScheduler) Start() {
	s.start.Do(func() {
		for i := 0; i < s.workers; i++ {
			s.wg.Add(1)
			go s.work()
		}
		s.logger.Info("Analytics workers started", zap.Int("workers", s.workers))
	})
}

func (s *AsyncScheduler) work() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case reason := <-s.jobs:
			runRecompute(s.ctx, s.recomputer, s.logger, reason)
		}
	}
}

// Stop cancels running recomputes and waits for the workers to exit.
func (s *AsyncScheduler) Stop(ctx context.Context) error {
	s.cancel()
	return waitGroupDone(ctx, &s.wg)
}

// ---------- Redis ----------

type recomputeJob struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// RedisScheduler pushes jobs onto a redis list so any instance can pick them
// up. Workers block on BRPOP.
type RedisScheduler struct {
	client     *redis.Client
	key        string
	recomputer AnalyticsRecomputer
	logger     *zap.Logger
	workers    int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	start  sync.Once
}

func NewRedisScheduler(client *redis.Client, key string, recomputer AnalyticsRecomputer, workers int, logger *zap.Logger) *RedisScheduler {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisScheduler{
		client:     client,
		key:        key,
		recomputer: recomputer,
		logger:     logger.Named("analytics"),
		workers:    workers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *RedisScheduler) Schedule(reason string) {
	payload, err := json.Marshal(recomputeJob{Reason: reason, RequestedAt: time.Now().UTC()})
	if err != nil {
		s.logger.Error("Failed to encode analytics job", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	if err := s.client.LPush(ctx, s.key, payload).Err(); err != nil {
		s.logger.Error("Failed to enqueue analytics job",
			zap.String("queue", s.key),
			zap.String("reason", reason),
			zap.Error(err))
	}
}

func (s *RedisScheduler) Start() {
	s.start.Do(func() {
		for i := 0; i < s.workers; i++ {
			s.wg.Add(1)
			go s.work()
		}
		s.logger.Info("Redis analytics workers started", zap.String("queue", s.key), zap.Int("workers", s.workers))
	})
}

func (s *RedisScheduler) work() {
	defer s.wg.Done()
	for {
		if s.ctx.Err() != nil {
			return
		}
		res, err := s.client.BRPop(s.ctx, 5*time.Second, s.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if s.ctx.Err() != nil {
				return
			}
			s.logger.Warn("Analytics queue read failed", zap.Error(err))
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		// BRPOP answers [key, value]
		var job recomputeJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			s.logger.Warn("Dropping malformed analytics job", zap.String("payload", res[1]), zap.Error(err))
			continue
		}
		runRecompute(s.ctx, s.recomputer, s.logger, job.Reason)
	}
}

func (s *RedisScheduler) Stop(ctx context.Context) error {
	s.cancel()
	return waitGroupDone(ctx, &s.wg)
}

func waitGroupDone(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
