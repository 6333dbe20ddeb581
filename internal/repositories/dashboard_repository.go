package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "betafeedback/internal/models/db_models"
)

type DashboardRepository interface {
	// ListSummaries returns every stored summary with its question.
	ListSummaries(ctx context.Context) ([]dbm.AnalyticsSummary, error)

	// ReplaceSummaries upserts changed rows and deletes every summary whose
	// question id is not in keep, all in one transaction.
	ReplaceSummaries(ctx context.Context, changed []dbm.AnalyticsSummary, keep []uuid.UUID) error
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) ListSummaries(ctx context.Context) ([]dbm.AnalyticsSummary, error) {
	rows := []dbm.AnalyticsSummary{}
	err := r.db.WithContext(ctx).
		Preload("Question").
		Order("question_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) ReplaceSummaries(ctx context.Context, changed []dbm.AnalyticsSummary, keep []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&dbm.AnalyticsSummary{})
		if len(keep) > 0 {
			stale = stale.Where("question_id NOT IN ?", keep)
		} else {
			stale = stale.Where("question_id IS NOT NULL")
		}
		if err := stale.Delete(&dbm.AnalyticsSummary{}).Error; err != nil {
			return err
		}

		if len(changed) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "question_id"}},
				UpdateAll: true,
			}).
			Create(&changed).Error
	})
}
