package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"betafeedback/internal/models/db_models"
)

// ErrSessionNotPending is returned when the conditional completion update
// matched no pending session.
var ErrSessionNotPending = errors.New("session is not pending")

type SessionRepositoryInterface interface {
	Create(ctx context.Context, session *db_models.FeedbackSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.FeedbackSession, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context, limit, offset int) ([]db_models.FeedbackSession, int64, error)
	CountByStatus(ctx context.Context) (total int64, completed int64, err error)
	ListSince(ctx context.Context, since time.Time) ([]db_models.FeedbackSession, error)
	DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error)
	Ping(ctx context.Context) error
}

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepositoryInterface {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *db_models.FeedbackSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.FeedbackSession, error) {
	var session db_models.FeedbackSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// markCompleted is the only way a session leaves pending. The status guard
// in the WHERE clause makes the transition happen at most once.
func markCompleted(tx *gorm.DB, id uuid.UUID, at time.Time) error {
	res := tx.Model(&db_models.FeedbackSession{}).
		Where("id = ? AND status = ?", id, db_models.SessionStatusPending).
		Updates(map[string]interface{}{
			"status":       db_models.SessionStatusCompleted,
			"completed_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotPending
	}
	return nil
}

func (r *SessionRepository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return markCompleted(r.db.WithContext(ctx), id, at)
}

func (r *SessionRepository) List(ctx context.Context, limit, offset int) ([]db_models.FeedbackSession, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&db_models.FeedbackSession{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sessions := []db_models.FeedbackSession{}
	err := r.db.WithContext(ctx).
		Limit(limit).
		Offset(offset).
		Order("created_at DESC, id").
		Find(&sessions).Error
	return sessions, total, err
}

func (r *SessionRepository) CountByStatus(ctx context.Context) (int64, int64, error) {
	var total, completed int64
	if err := r.db.WithContext(ctx).Model(&db_models.FeedbackSession{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err := r.db.WithContext(ctx).
		Model(&db_models.FeedbackSession{}).
		Where("status = ?", db_models.SessionStatusCompleted).
		Count(&completed).Error
	return total, completed, err
}

// ListSince returns sessions created at or after since; a zero since returns
// every session.
func (r *SessionRepository) ListSince(ctx context.Context, since time.Time) ([]db_models.FeedbackSession, error) {
	sessions := []db_models.FeedbackSession{}
	q := r.db.WithContext(ctx).
		Select("id", "status", "created_at", "completed_at").
		Order("created_at ASC")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	err := q.Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&db_models.FeedbackSession{}).
			Where("status = ? AND created_at < ?", db_models.SessionStatusPending, cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("session_id IN ?", ids).Delete(&db_models.Response{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ? AND status = ?", ids, db_models.SessionStatusPending).
			Delete(&db_models.FeedbackSession{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
