package response_models

import (
	"betafeedback/internal/models/db_models"
)

type DashboardStats struct {
	TotalSessions     int64                        `json:"totalSessions"`
	CompletedSessions int64                        `json:"completedSessions"`
	CompletionRate    int64                        `json:"completionRate"` // percent, rounded
	TotalResponses    int64                        `json:"totalResponses"`
	AvgRating         float64                      `json:"avgRating"`
	TopRated          []db_models.AnalyticsSummary `json:"topRated"`
	WorstRated        []db_models.AnalyticsSummary `json:"worstRated"`
}

type CategoryAnalytics struct {
	Category           string                       `json:"category"`
	TotalResponses     int64                        `json:"totalResponses"`
	AvgRating          float64                      `json:"avgRating"`
	RatingDistribution db_models.RatingDistribution `json:"ratingDistribution"`
}

type TrendPoint struct {
	Date              string  `json:"date"`
	Sessions          int64   `json:"sessions"`
	CompletedSessions int64   `json:"completedSessions"`
	Responses         int64   `json:"responses"`
	AvgRating         float64 `json:"avgRating"`
}

type TrendReport struct {
	Period    int          `json:"period"`
	StartDate string       `json:"startDate"`
	EndDate   string       `json:"endDate"`
	Trends    []TrendPoint `json:"trends"`
}

type PerformanceReport struct {
	TopPerforming   []db_models.AnalyticsSummary `json:"topPerforming"`
	WorstPerforming []db_models.AnalyticsSummary `json:"worstPerforming"`
	MostResponded   []db_models.AnalyticsSummary `json:"mostResponded"`
	HighestPositive []db_models.AnalyticsSummary `json:"highestPositive"`
	TotalQuestions  int                          `json:"totalQuestions"`
	RatedQuestions  int                          `json:"ratedQuestions"`
}

type CompletionDistribution struct {
	Fast   int64 `json:"fast"`   // <= 5 minutes
	Medium int64 `json:"medium"` // 5-15 minutes
	Slow   int64 `json:"slow"`   // > 15 minutes
}

type CompletionReport struct {
	TotalSessions              int64                  `json:"totalSessions"`
	CompletedSessions          int64                  `json:"completedSessions"`
	PendingSessions            int64                  `json:"pendingSessions"`
	CompletionRate             int64                  `json:"completionRate"`
	AvgCompletionTime          int64                  `json:"avgCompletionTime"` // minutes
	CompletionsByDate          map[string]int64       `json:"completionsByDate"`
	CompletionTimeDistribution CompletionDistribution `json:"completionTimeDistribution"`
}
