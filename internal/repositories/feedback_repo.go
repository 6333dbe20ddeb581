package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"betafeedback/internal/models/db_models"
)

type FeedbackRepositoryInterface interface {
	SaveSubmission(ctx context.Context, sessionID uuid.UUID, completedAt time.Time, responses []db_models.Response) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]db_models.Response, error)
	ListRatings(ctx context.Context) ([]RatingRow, error)
	ListCategoryRatings(ctx context.Context, category string) ([]CategoryRatingRow, error)
	ListDetails(ctx context.Context) ([]ResponseDetailRow, error)
	ListForSessionsSince(ctx context.Context, since time.Time) ([]TrendResponseRow, error)
}

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepositoryInterface {
	return &FeedbackRepository{db: db}
}

// ---------- Row helpers ----------
type RatingRow struct {
	QuestionID  uuid.UUID `gorm:"column:question_id"`
	RatingValue *int      `gorm:"column:rating_value"`
}

type CategoryRatingRow struct {
	Category    string `gorm:"column:category"`
	RatingValue *int   `gorm:"column:rating_value"`
}

type TrendResponseRow struct {
	CreatedAt   time.Time `gorm:"column:created_at"`
	RatingValue *int      `gorm:"column:rating_value"`
}

// ResponseDetailRow is a response joined with its question and session.
type ResponseDetailRow struct {
	ID                 uuid.UUID  `gorm:"column:id" json:"id"`
	SessionID          uuid.UUID  `gorm:"column:session_id" json:"session_id"`
	QuestionID         uuid.UUID  `gorm:"column:question_id" json:"question_id"`
	ResponseValue      *string    `gorm:"column:response_value" json:"response_value"`
	RatingValue        *int       `gorm:"column:rating_value" json:"rating_value"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	QuestionText       string     `gorm:"column:question_text" json:"question_text"`
	QuestionType       string     `gorm:"column:question_type" json:"question_type"`
	Category           string     `gorm:"column:category" json:"category"`
	SessionStatus      string     `gorm:"column:session_status" json:"session_status"`
	UserEmail          *string    `gorm:"column:user_email" json:"user_email"`
	SessionCreatedAt   time.Time  `gorm:"column:session_created_at" json:"session_created_at"`
	SessionCompletedAt *time.Time `gorm:"column:session_completed_at" json:"session_completed_at"`
}

// SaveSubmission completes the session and stores its responses in one
// transaction. If the session is no longer pending nothing is written and
// ErrSessionNotPending is returned.
func (r *FeedbackRepository) SaveSubmission(ctx context.Context, sessionID uuid.UUID, completedAt time.Time, responses []db_models.Response) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := markCompleted(tx, sessionID, completedAt); err != nil {
			return err
		}
		if len(responses) == 0 {
			return nil
		}
		return tx.Omit("Question").Create(&responses).Error
	})
}

func (r *FeedbackRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]db_models.Response, error) {
	responses := []db_models.Response{}
	err := r.db.WithContext(ctx).
		Preload("Question").
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id").
		Find(&responses).Error
	return responses, err
}

func (r *FeedbackRepository) ListRatings(ctx context.Context) ([]RatingRow, error) {
	var rows []RatingRow
	err := r.db.WithContext(ctx).
		Model(&db_models.Response{}).
		Select("question_id, rating_value").
		Find(&rows).Error
	return rows, err
}

func (r *FeedbackRepository) ListCategoryRatings(ctx context.Context, category string) ([]CategoryRatingRow, error) {
	var rows []CategoryRatingRow
	q := r.db.WithContext(ctx).
		Table("responses r").
		Select("q.category AS category, r.rating_value AS rating_value").
		Joins("JOIN questions q ON q.id = r.question_id")
	if category != "" {
		q = q.Where("q.category = ?", category)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *FeedbackRepository) ListDetails(ctx context.Context) ([]ResponseDetailRow, error) {
	var rows []ResponseDetailRow
	err := r.db.WithContext(ctx).
		Table("responses r").
		Select(`
			r.id,
			r.session_id,
			r.question_id,
			r.response_value,
			r.rating_value,
			r.created_at,
			q.question_text,
			q.question_type,
			q.category,
			s.status AS session_status,
			s.user_email,
			s.created_at AS session_created_at,
			s.completed_at AS session_completed_at`).
		Joins("JOIN questions q ON q.id = r.question_id").
		Joins("JOIN feedback_sessions s ON s.id = r.session_id").
		Order("r.created_at DESC, r.id ASC").
		Find(&rows).Error
	return rows, err
}

// ListForSessionsSince returns the responses that belong to sessions created
// at or after since.
func (r *FeedbackRepository) ListForSessionsSince(ctx context.Context, since time.Time) ([]TrendResponseRow, error) {
	var rows []TrendResponseRow
	err := r.db.WithContext(ctx).
		Table("responses r").
		Select("r.created_at AS created_at, r.rating_value AS rating_value").
		Joins("JOIN feedback_sessions s ON s.id = r.session_id").
		Where("s.created_at >= ?", since).
		Find(&rows).Error
	return rows, err
}

// IsNotPending reports whether err came from the completion guard.
func IsNotPending(err error) bool {
	return errors.Is(err, ErrSessionNotPending)
}
