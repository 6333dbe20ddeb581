package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"betafeedback/internal/models/db_models"
	"betafeedback/internal/models/request_models"
	"betafeedback/internal/models/response_models"
	"betafeedback/internal/repositories"
	"betafeedback/pkg/utils"
)

type SessionServiceInterface interface {
	StartSession(ctx context.Context, userEmail *string) (*db_models.FeedbackSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*response_models.SessionDetail, error)
	CompleteSession(ctx context.Context, id uuid.UUID) (*db_models.FeedbackSession, error)
	ListSessions(ctx context.Context, page request_models.Pagination) (*response_models.SessionPage, error)
	Ping(ctx context.Context) error
}

type SessionService struct {
	sessionRepo  repositories.SessionRepositoryInterface
	feedbackRepo repositories.FeedbackRepositoryInterface
	logger       *zap.Logger
	now          func() time.Time
}

func NewSessionService(
	sessionRepo repositories.SessionRepositoryInterface,
	feedbackRepo repositories.FeedbackRepositoryInterface,
	logger *zap.Logger,
) SessionServiceInterface {
	return &SessionService{
		sessionRepo:  sessionRepo,
		feedbackRepo: feedbackRepo,
		logger:       logger.Named("sessions"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *SessionService) StartSession(ctx context.Context, userEmail *string) (*db_models.FeedbackSession, error) {
	var email *string
	if userEmail != nil {
		if trimmed := strings.TrimSpace(*userEmail); trimmed != "" {
			if !utils.IsValidEmail(trimmed) {
				return nil, utils.NewValidationError("Invalid email format",
					utils.FieldError{Field: "userEmail", Message: "must be a valid email address"},
				).WithCode(utils.CodeInvalidEmail)
			}
			email = &trimmed
		}
	}

	session := &db_models.FeedbackSession{
		UserEmail: email,
		Status:    db_models.SessionStatusPending,
		CreatedAt: s.now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, storeError("create session", err)
	}

	s.logger.Info("Feedback session started",
		zap.String("session_id", session.ID.String()),
		zap.Bool("has_email", email != nil))
	return session, nil
}

func (s *SessionService) GetSession(ctx context.Context, id uuid.UUID) (*response_models.SessionDetail, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find session", err)
	}
	if session == nil {
		return nil, utils.ErrSessionNotFound
	}

	responses, err := s.feedbackRepo.ListBySession(ctx, id)
	if err != nil {
		return nil, storeError("list session responses", err)
	}
	return &response_models.SessionDetail{Session: session, Responses: responses}, nil
}

// CompleteSession moves a pending session to completed. A session that is
// already completed is rejected instead of being stamped again.
func (s *SessionService) CompleteSession(ctx context.Context, id uuid.UUID) (*db_models.FeedbackSession, error) {
	err := s.sessionRepo.MarkCompleted(ctx, id, s.now())
	if err != nil {
		if repositories.IsNotPending(err) {
			return nil, s.notPendingReason(ctx, id)
		}
		return nil, storeError("complete session", err)
	}

	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find session", err)
	}
	if session == nil {
		return nil, utils.ErrSessionNotFound
	}
	return session, nil
}

// notPendingReason tells a missing session apart from a completed one after
// the conditional update matched nothing.
func (s *SessionService) notPendingReason(ctx context.Context, id uuid.UUID) error {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return storeError("find session", err)
	}
	if session == nil {
		return utils.ErrSessionNotFound
	}
	return utils.ErrSessionCompleted
}

func (s *SessionService) ListSessions(ctx context.Context, page request_models.Pagination) (*response_models.SessionPage, error) {
	if !page.Valid() {
		return nil, utils.ErrInvalidPagination
	}
	sessions, total, err := s.sessionRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, storeError("list sessions", err)
	}
	return &response_models.SessionPage{
		Sessions: sessions,
		Total:    total,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}, nil
}

func (s *SessionService) Ping(ctx context.Context) error {
	if err := s.sessionRepo.Ping(ctx); err != nil {
		return storeError("ping database", err)
	}
	return nil
}
