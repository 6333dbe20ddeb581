package db_models

import (
	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionTypeRating         QuestionType = "rating"
	QuestionTypeText           QuestionType = "text"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
)

const (
	CategoryFeatures    = "features"
	CategoryPerformance = "performance"
	CategoryBugs        = "bugs"
	CategoryGeneral     = "general"
	CategoryAICoaching  = "ai_coaching"
	CategoryCommunity   = "community"
)

type Question struct {
	BaseModel
	QuestionText string                      `gorm:"type:text;not null" json:"question_text"`
	QuestionType QuestionType                `gorm:"type:varchar(32);not null" json:"question_type"`
	Category     string                      `gorm:"type:varchar(32);not null;index" json:"category"`
	OrderIndex   int                         `gorm:"not null;index" json:"order_index"`
	IsActive     bool                        `gorm:"not null" json:"is_active"`
	Options      datatypes.JSONSlice[string] `json:"options"`
}

func (Question) TableName() string {
	return "questions"
}

// HasOption reports whether v is one of the question's choices.
func (q *Question) HasOption(v string) bool {
	for _, o := range q.Options {
		if o == v {
			return true
		}
	}
	return false
}
