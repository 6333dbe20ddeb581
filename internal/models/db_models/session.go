package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusCompleted SessionStatus = "completed"
)

type FeedbackSession struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserEmail   *string       `gorm:"type:varchar(255)" json:"user_email"`
	Status      SessionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt   time.Time     `gorm:"not null;index" json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at"`
	Responses   []Response    `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"responses,omitempty"`
}

func (FeedbackSession) TableName() string {
	return "feedback_sessions"
}

func (s *FeedbackSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = tx.NowFunc()
	}
	if s.Status == "" {
		s.Status = SessionStatusPending
	}
	return nil
}

func (s *FeedbackSession) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}
