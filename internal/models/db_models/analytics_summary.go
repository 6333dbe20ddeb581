package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RatingDistribution counts ratings per star value.
type RatingDistribution struct {
	One   int64 `json:"1"`
	Two   int64 `json:"2"`
	Three int64 `json:"3"`
	Four  int64 `json:"4"`
	Five  int64 `json:"5"`
}

func (d *RatingDistribution) Add(rating int) {
	switch rating {
	case 1:
		d.One++
	case 2:
		d.Two++
	case 3:
		d.Three++
	case 4:
		d.Four++
	case 5:
		d.Five++
	}
}

// AnalyticsSummary is derived from the responses table and can be rebuilt at
// any time.
type AnalyticsSummary struct {
	QuestionID         uuid.UUID                              `gorm:"type:uuid;primaryKey" json:"question_id"`
	AvgRating          float64                                `gorm:"type:numeric(4,2);not null" json:"avg_rating"`
	TotalResponses     int64                                  `gorm:"not null" json:"total_responses"`
	PositiveCount      int64                                  `gorm:"not null" json:"positive_count"`
	NegativeCount      int64                                  `gorm:"not null" json:"negative_count"`
	RatingDistribution datatypes.JSONType[RatingDistribution] `json:"rating_distribution"`
	LastUpdated        time.Time                              `gorm:"not null" json:"last_updated"`

	Question *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"question,omitempty"`
}

func (AnalyticsSummary) TableName() string {
	return "analytics_summaries"
}

// SameValues compares the derived figures, ignoring LastUpdated.
func (a AnalyticsSummary) SameValues(b AnalyticsSummary) bool {
	return a.QuestionID == b.QuestionID &&
		a.AvgRating == b.AvgRating &&
		a.TotalResponses == b.TotalResponses &&
		a.PositiveCount == b.PositiveCount &&
		a.NegativeCount == b.NegativeCount &&
		a.RatingDistribution.Data() == b.RatingDistribution.Data()
}

// AllModels lists every table for migrations.
func AllModels() []interface{} {
	return []interface{}{
		&Question{},
		&FeedbackSession{},
		&Response{},
		&AnalyticsSummary{},
	}
}
