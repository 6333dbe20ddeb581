package services

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"betafeedback/internal/config"
	"betafeedback/internal/models/db_models"
	"betafeedback/internal/repositories"
	"betafeedback/internal/testutil"
)

type testEnv struct {
	db        *gorm.DB
	cfg       *config.Config
	questions repositories.QuestionRepositoryInterface
	sessions  repositories.SessionRepositoryInterface
	feedback  repositories.FeedbackRepositoryInterface
	dashboard repositories.DashboardRepository

	dashboardSvc *DashboardService
	sessionSvc   *SessionService
	feedbackSvc  *FeedbackService
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:       config.EnvDevelopment,
		JWTSecret:         "test-secret",
		TokenTTL:          24 * time.Hour,
		AdminPassword:     "let-me-in",
		AdminUsers:        map[string]string{"lead@example.com": "lead-pass"},
		LoginFailureDelay: 20 * time.Millisecond,
		TextMaxLength:     1000,
		SessionTTL:        7 * 24 * time.Hour,
		ReaperInterval:    time.Hour,
		AnalyticsQueue:    config.QueueSync,
		AnalyticsWorkers:  1,
	}
}

// newTestEnv wires the real repositories over sqlite with a synchronous
// analytics scheduler.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	logger := zaptest.NewLogger(t)
	cfg := testConfig()

	env := &testEnv{
		db:        db,
		cfg:       cfg,
		questions: repositories.NewQuestionRepository(db),
		sessions:  repositories.NewSessionRepository(db),
		feedback:  repositories.NewFeedbackRepository(db),
		dashboard: repositories.NewDashboardRepository(db),
	}
	env.dashboardSvc = NewDashboardService(env.dashboard, env.feedback, env.sessions, logger).(*DashboardService)
	env.sessionSvc = NewSessionService(env.sessions, env.feedback, logger).(*SessionService)
	env.feedbackSvc = NewFeedbackService(env.sessions, env.questions, env.feedback,
		NewSyncScheduler(env.dashboardSvc, logger), cfg, logger).(*FeedbackService)
	return env
}

func (e *testEnv) addQuestion(t *testing.T, qtype db_models.QuestionType, category string, order int, options ...string) db_models.Question {
	t.Helper()
	q := db_models.Question{
		QuestionText: "question " + string(qtype),
		QuestionType: qtype,
		Category:     category,
		OrderIndex:   order,
		IsActive:     true,
	}
	if len(options) > 0 {
		q.Options = options
	}
	if err := e.questions.Create(context.Background(), &q); err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

func (e *testEnv) startSession(t *testing.T) *db_models.FeedbackSession {
	t.Helper()
	s, err := e.sessionSvc.StartSession(context.Background(), nil)
	if err != nil {
		t.Fatalf("StartSession() = %v", err)
	}
	return s
}

func (e *testEnv) countResponses(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&db_models.Response{}).Count(&n).Error; err != nil {
		t.Fatalf("count responses: %v", err)
	}
	return n
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
