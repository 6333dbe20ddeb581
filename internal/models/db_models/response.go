package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Response is written once per (session, question) and never updated.
type Response struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_responses_session_question,priority:1" json:"session_id"`
	QuestionID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_responses_session_question,priority:2" json:"question_id"`
	ResponseValue *string   `gorm:"type:text" json:"response_value"`
	RatingValue   *int      `gorm:"check:rating_value >= 1 AND rating_value <= 5" json:"rating_value"`
	CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`

	Question *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"question,omitempty"`
}

func (Response) TableName() string {
	return "responses"
}

func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = tx.NowFunc()
	}
	return nil
}
