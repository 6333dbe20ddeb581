package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"betafeedback/internal/models/db_models"
	"betafeedback/internal/models/response_models"
	"betafeedback/internal/repositories"
	"betafeedback/pkg/logging"
	"betafeedback/pkg/utils"
)

const (
	dashboardListSize   = 5
	performanceListSize = 10

	DefaultTrendDays = 30
	MaxTrendDays     = 365

	fastCompletionMinutes   = 5
	mediumCompletionMinutes = 15
)

type DashboardServiceInterface interface {
	AnalyticsRecomputer

	GetAnalytics(ctx context.Context) ([]db_models.AnalyticsSummary, error)
	GetDashboardStats(ctx context.Context) (*response_models.DashboardStats, error)
	GetCategoryAnalytics(ctx context.Context, category string) ([]response_models.CategoryAnalytics, error)
	GetTrends(ctx context.Context, days int) (*response_models.TrendReport, error)
	GetPerformance(ctx context.Context) (*response_models.PerformanceReport, error)
	GetCompletion(ctx context.Context) (*response_models.CompletionReport, error)
	ListResponses(ctx context.Context) ([]repositories.ResponseDetailRow, error)
}

type DashboardService struct {
	dashboardRepo repositories.DashboardRepository
	feedbackRepo  repositories.FeedbackRepositoryInterface
	sessionRepo   repositories.SessionRepositoryInterface
	logger        *zap.Logger
	now           func() time.Time

	// recomputes in this process run one at a time
	recomputeMu sync.Mutex
}

func NewDashboardService(
	dashboardRepo repositories.DashboardRepository,
	feedbackRepo repositories.FeedbackRepositoryInterface,
	sessionRepo repositories.SessionRepositoryInterface,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		feedbackRepo:  feedbackRepo,
		sessionRepo:   sessionRepo,
		logger:        logger.Named("dashboard"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ComputeSummaries groups rating rows by question. Every row counts towards
// total_responses; only rows with a rating count towards the average, the
// positive (>= 4) and negative (<= 2) counts and the distribution. The
// result is ordered by question id.
func ComputeSummaries(rows []repositories.RatingRow, now time.Time) []db_models.AnalyticsSummary {
	type acc struct {
		total, positive, negative int64
		sum, rated                int64
		dist                      db_models.RatingDistribution
	}
	groups := make(map[uuid.UUID]*acc)
	for _, row := range rows {
		a, ok := groups[row.QuestionID]
		if !ok {
			a = &acc{}
			groups[row.QuestionID] = a
		}
		a.total++
		if row.RatingValue == nil {
			continue
		}
		r := *row.RatingValue
		a.sum += int64(r)
		a.rated++
		a.dist.Add(r)
		if r >= 4 {
			a.positive++
		}
		if r <= 2 {
			a.negative++
		}
	}

	out := make([]db_models.AnalyticsSummary, 0, len(groups))
	for id, a := range groups {
		out = append(out, db_models.AnalyticsSummary{
			QuestionID:         id,
			AvgRating:          average(a.sum, a.rated),
			TotalResponses:     a.total,
			PositiveCount:      a.positive,
			NegativeCount:      a.negative,
			RatingDistribution: datatypes.NewJSONType(a.dist),
			LastUpdated:        now,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QuestionID.String() < out[j].QuestionID.String()
	})
	return out
}

// average returns sum/n rounded half up to two places, 0 when n is 0.
func average(sum, n int64) float64 {
	if n == 0 {
		return 0
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(n)).Round(2).InexactFloat64()
}

func percent(part, whole int64) int64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part * 100).Div(decimal.NewFromInt(whole)).Round(0).IntPart()
}

// RecomputeAnalytics rebuilds every summary from the responses table. Rows
// whose figures did not change are left alone and rows for questions
// without responses are removed, so repeating it without new responses
// leaves the table untouched.
func (s *DashboardService) RecomputeAnalytics(ctx context.Context) ([]db_models.AnalyticsSummary, error) {
	defer logging.LogDuration(s.logger, ctx, "RecomputeAnalytics")()

	s.recomputeMu.Lock()
	defer s.recomputeMu.Unlock()

	rows, err := s.feedbackRepo.ListRatings(ctx)
	if err != nil {
		return nil, storeError("load ratings", err)
	}
	existing, err := s.dashboardRepo.ListSummaries(ctx)
	if err != nil {
		return nil, storeError("load summaries", err)
	}
	current := make(map[uuid.UUID]db_models.AnalyticsSummary, len(existing))
	for _, e := range existing {
		current[e.QuestionID] = e
	}

	computed := ComputeSummaries(rows, s.now())
	keep := make([]uuid.UUID, 0, len(computed))
	var changed []db_models.AnalyticsSummary
	for _, c := range computed {
		keep = append(keep, c.QuestionID)
		if old, ok := current[c.QuestionID]; ok && old.SameValues(c) {
			continue
		}
		changed = append(changed, c)
	}

	if len(changed) > 0 || len(keep) != len(existing) {
		if err := s.dashboardRepo.ReplaceSummaries(ctx, changed, keep); err != nil {
			return nil, storeError("write summaries", err)
		}
		s.logger.Info("Analytics summaries updated",
			zap.Int("changed", len(changed)),
			zap.Int("questions", len(keep)))
	}

	summaries, err := s.dashboardRepo.ListSummaries(ctx)
	if err != nil {
		return nil, storeError("load summaries", err)
	}
	return summaries, nil
}

func (s *DashboardService) GetAnalytics(ctx context.Context) ([]db_models.AnalyticsSummary, error) {
	return s.RecomputeAnalytics(ctx)
}

func ratedCount(sum db_models.AnalyticsSummary) int64 {
	d := sum.RatingDistribution.Data()
	return d.One + d.Two + d.Three + d.Four + d.Five
}

func ratedOnly(summaries []db_models.AnalyticsSummary) []db_models.AnalyticsSummary {
	out := make([]db_models.AnalyticsSummary, 0, len(summaries))
	for _, sum := range summaries {
		if ratedCount(sum) > 0 {
			out = append(out, sum)
		}
	}
	return out
}

// sortedBy returns a copy of summaries ordered by less, ties broken by
// question id, cut to limit entries.
func sortedBy(summaries []db_models.AnalyticsSummary, limit int, less func(a, b db_models.AnalyticsSummary) (bool, bool)) []db_models.AnalyticsSummary {
	out := append([]db_models.AnalyticsSummary(nil), summaries...)
	sort.SliceStable(out, func(i, j int) bool {
		if lt, decided := less(out[i], out[j]); decided {
			return lt
		}
		return out[i].QuestionID.String() < out[j].QuestionID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func byAvgDesc(a, b db_models.AnalyticsSummary) (bool, bool) {
	if a.AvgRating != b.AvgRating {
		return a.AvgRating > b.AvgRating, true
	}
	return false, false
}

func byAvgAsc(a, b db_models.AnalyticsSummary) (bool, bool) {
	if a.AvgRating != b.AvgRating {
		return a.AvgRating < b.AvgRating, true
	}
	return false, false
}

func byResponsesDesc(a, b db_models.AnalyticsSummary) (bool, bool) {
	if a.TotalResponses != b.TotalResponses {
		return a.TotalResponses > b.TotalResponses, true
	}
	return false, false
}

func byPositiveShareDesc(a, b db_models.AnalyticsSummary) (bool, bool) {
	// compare positive/rated without dividing
	l := a.PositiveCount * ratedCount(b)
	r := b.PositiveCount * ratedCount(a)
	if l != r {
		return l > r, true
	}
	return false, false
}

func (s *DashboardService) GetDashboardStats(ctx context.Context) (*response_models.DashboardStats, error) {
	summaries, err := s.RecomputeAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	total, completed, err := s.sessionRepo.CountByStatus(ctx)
	if err != nil {
		return nil, storeError("count sessions", err)
	}

	var totalResponses int64
	for _, sum := range summaries {
		totalResponses += sum.TotalResponses
	}

	rated := ratedOnly(summaries)
	avg := decimal.Zero
	if len(rated) > 0 {
		for _, sum := range rated {
			avg = avg.Add(decimal.NewFromFloat(sum.AvgRating))
		}
		avg = avg.Div(decimal.NewFromInt(int64(len(rated)))).Round(2)
	}

	return &response_models.DashboardStats{
		TotalSessions:     total,
		CompletedSessions: completed,
		CompletionRate:    percent(completed, total),
		TotalResponses:    totalResponses,
		AvgRating:         avg.InexactFloat64(),
		TopRated:          sortedBy(rated, dashboardListSize, byAvgDesc),
		WorstRated:        sortedBy(rated, dashboardListSize, byAvgAsc),
	}, nil
}

func (s *DashboardService) GetCategoryAnalytics(ctx context.Context, category string) ([]response_models.CategoryAnalytics, error) {
	if category != "" && !utils.IsValidCategory(category) {
		return nil, utils.NewValidationError("Invalid category",
			utils.FieldError{Field: "category", Message: "unknown category"})
	}

	rows, err := s.feedbackRepo.ListCategoryRatings(ctx, category)
	if err != nil {
		return nil, storeError("load category ratings", err)
	}

	type acc struct {
		total, sum, rated int64
		dist              db_models.RatingDistribution
	}
	groups := make(map[string]*acc)
	if category != "" {
		groups[category] = &acc{}
	}
	for _, row := range rows {
		a, ok := groups[row.Category]
		if !ok {
			a = &acc{}
			groups[row.Category] = a
		}
		a.total++
		if row.RatingValue != nil {
			a.sum += int64(*row.RatingValue)
			a.rated++
			a.dist.Add(*row.RatingValue)
		}
	}

	out := make([]response_models.CategoryAnalytics, 0, len(groups))
	for name, a := range groups {
		out = append(out, response_models.CategoryAnalytics{
			Category:           name,
			TotalResponses:     a.total,
			AvgRating:          average(a.sum, a.rated),
			RatingDistribution: a.dist,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// GetTrends reports one point per UTC day for the last days days, today
// included. Sessions are bucketed by creation day, responses by their own
// creation day.
func (s *DashboardService) GetTrends(ctx context.Context, days int) (*response_models.TrendReport, error) {
	if days == 0 {
		days = DefaultTrendDays
	}
	if days < 1 || days > MaxTrendDays {
		return nil, utils.NewValidationError("Invalid period",
			utils.FieldError{Field: "days", Message: "must be between 1 and 365"})
	}

	end := s.now()
	today := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(days - 1))

	type acc struct {
		point      response_models.TrendPoint
		sum, rated int64
	}
	points := make([]*acc, days)
	index := make(map[string]*acc, days)
	for i := 0; i < days; i++ {
		key := utils.DateKey(start.AddDate(0, 0, i))
		points[i] = &acc{point: response_models.TrendPoint{Date: key}}
		index[key] = points[i]
	}

	sessions, err := s.sessionRepo.ListSince(ctx, start)
	if err != nil {
		return nil, storeError("load sessions", err)
	}
	for _, session := range sessions {
		a, ok := index[utils.DateKey(session.CreatedAt)]
		if !ok {
			continue
		}
		a.point.Sessions++
		if session.IsCompleted() {
			a.point.CompletedSessions++
		}
	}

	responses, err := s.feedbackRepo.ListForSessionsSince(ctx, start)
	if err != nil {
		return nil, storeError("load responses", err)
	}
	for _, r := range responses {
		a, ok := index[utils.DateKey(r.CreatedAt)]
		if !ok {
			continue
		}
		a.point.Responses++
		if r.RatingValue != nil {
			a.sum += int64(*r.RatingValue)
			a.rated++
		}
	}

	trends := make([]response_models.TrendPoint, days)
	for i, a := range points {
		a.point.AvgRating = average(a.sum, a.rated)
		trends[i] = a.point
	}
	return &response_models.TrendReport{
		Period:    days,
		StartDate: utils.DateKey(start),
		EndDate:   utils.DateKey(end),
		Trends:    trends,
	}, nil
}

func (s *DashboardService) GetPerformance(ctx context.Context) (*response_models.PerformanceReport, error) {
	summaries, err := s.dashboardRepo.ListSummaries(ctx)
	if err != nil {
		return nil, storeError("load summaries", err)
	}
	rated := ratedOnly(summaries)
	return &response_models.PerformanceReport{
		TopPerforming:   sortedBy(rated, performanceListSize, byAvgDesc),
		WorstPerforming: sortedBy(rated, performanceListSize, byAvgAsc),
		MostResponded:   sortedBy(summaries, performanceListSize, byResponsesDesc),
		HighestPositive: sortedBy(rated, performanceListSize, byPositiveShareDesc),
		TotalQuestions:  len(summaries),
		RatedQuestions:  len(rated),
	}, nil
}

func (s *DashboardService) GetCompletion(ctx context.Context) (*response_models.CompletionReport, error) {
	sessions, err := s.sessionRepo.ListSince(ctx, time.Time{})
	if err != nil {
		return nil, storeError("load sessions", err)
	}

	report := &response_models.CompletionReport{
		TotalSessions:     int64(len(sessions)),
		CompletionsByDate: make(map[string]int64),
	}
	var minutes, timed int64
	for _, session := range sessions {
		if !session.IsCompleted() {
			report.PendingSessions++
			continue
		}
		report.CompletedSessions++
		if session.CompletedAt == nil {
			continue
		}
		report.CompletionsByDate[utils.DateKey(*session.CompletedAt)]++

		m := utils.MinutesBetween(session.CreatedAt, *session.CompletedAt)
		minutes += m
		timed++
		switch {
		case m <= fastCompletionMinutes:
			report.CompletionTimeDistribution.Fast++
		case m <= mediumCompletionMinutes:
			report.CompletionTimeDistribution.Medium++
		default:
			report.CompletionTimeDistribution.Slow++
		}
	}
	report.CompletionRate = percent(report.CompletedSessions, report.TotalSessions)
	if timed > 0 {
		report.AvgCompletionTime = decimal.NewFromInt(minutes).Div(decimal.NewFromInt(timed)).Round(0).IntPart()
	}
	return report, nil
}

func (s *DashboardService) ListResponses(ctx context.Context) ([]repositories.ResponseDetailRow, error) {
	rows, err := s.feedbackRepo.ListDetails(ctx)
	if err != nil {
		return nil, storeError("list responses", err)
	}
	if rows == nil {
		rows = []repositories.ResponseDetailRow{}
	}
	return rows, nil
}
