package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"betafeedback/internal/config"
	"betafeedback/internal/models/db_models"
	"betafeedback/internal/models/request_models"
	"betafeedback/internal/models/response_models"
	"betafeedback/internal/repositories"
	"betafeedback/pkg/logging"
	"betafeedback/pkg/utils"
)

type FeedbackServiceInterface interface {
	SubmitFeedback(ctx context.Context, req request_models.SubmitFeedbackRequest) (*response_models.SubmissionResult, error)
}

type FeedbackService struct {
	sessionRepo   repositories.SessionRepositoryInterface
	questionRepo  repositories.QuestionRepositoryInterface
	feedbackRepo  repositories.FeedbackRepositoryInterface
	scheduler     AnalyticsScheduler
	maxTextLength int
	logger        *zap.Logger
	now           func() time.Time
}

func NewFeedbackService(
	sessionRepo repositories.SessionRepositoryInterface,
	questionRepo repositories.QuestionRepositoryInterface,
	feedbackRepo repositories.FeedbackRepositoryInterface,
	scheduler AnalyticsScheduler,
	cfg *config.Config,
	logger *zap.Logger,
) FeedbackServiceInterface {
	return &FeedbackService{
		sessionRepo:   sessionRepo,
		questionRepo:  questionRepo,
		feedbackRepo:  feedbackRepo,
		scheduler:     scheduler,
		maxTextLength: cfg.TextMaxLength,
		logger:        logger.Named("feedback"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SubmitFeedback validates every answer first and only then writes. The
// session is completed and the responses inserted in one transaction, so a
// rejected batch leaves no rows behind and a session can only be submitted
// once even under concurrent requests.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, req request_models.SubmitFeedbackRequest) (*response_models.SubmissionResult, error) {
	defer logging.LogDuration(s.logger, ctx, "SubmitFeedback")()

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, utils.NewValidationError("Invalid session id",
			utils.FieldError{Field: "sessionId", Message: "must be a valid UUID"})
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, storeError("find session", err)
	}
	if session == nil {
		return nil, utils.ErrSessionNotFound
	}
	if session.IsCompleted() {
		return nil, utils.ErrSessionCompleted
	}
	if len(req.Responses) == 0 {
		return nil, utils.NewValidationError("No responses provided").WithCode(utils.CodeNoResponses)
	}

	// inactive questions stay valid targets, they may have been switched off
	// while the form was open
	questions, err := s.questionRepo.ListAll(ctx)
	if err != nil {
		return nil, storeError("load question catalog", err)
	}
	catalog := make(map[uuid.UUID]db_models.Question, len(questions))
	for _, q := range questions {
		catalog[q.ID] = q
	}

	rows, verr := ValidateAnswers(sessionID, req.Responses, catalog, s.maxTextLength)
	if verr != nil {
		s.logger.Info("Submission rejected",
			zap.String("session_id", sessionID.String()),
			zap.Int("errors", len(verr.Errors)),
			zap.String("trace_id", logging.TraceID(ctx)))
		return nil, verr
	}

	if err := s.feedbackRepo.SaveSubmission(ctx, sessionID, s.now(), rows); err != nil {
		if repositories.IsNotPending(err) {
			// lost the race against another submission or the reaper
			existing, ferr := s.sessionRepo.FindByID(ctx, sessionID)
			if ferr != nil {
				return nil, storeError("find session", ferr)
			}
			if existing == nil {
				return nil, utils.ErrSessionNotFound
			}
			return nil, utils.ErrSessionCompleted
		}
		return nil, storeError("save submission", err)
	}

	s.logger.Info("Feedback submitted",
		zap.String("session_id", sessionID.String()),
		zap.Int("responses", len(rows)),
		zap.String("trace_id", logging.TraceID(ctx)))

	s.scheduler.Schedule("submission")

	completed, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, storeError("reload session", err)
	}
	saved, err := s.feedbackRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, storeError("reload responses", err)
	}
	return &response_models.SubmissionResult{Session: completed, Responses: saved}, nil
}
