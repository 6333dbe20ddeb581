package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"betafeedback/internal/models/db_models"
)

type QuestionRepositoryInterface interface {
	ListActive(ctx context.Context) ([]db_models.Question, error)
	ListAll(ctx context.Context) ([]db_models.Question, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Question, error)
	Create(ctx context.Context, question *db_models.Question) error
	Save(ctx context.Context, question *db_models.Question) error
	ToggleActive(ctx context.Context, id uuid.UUID) (*db_models.Question, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) (bool, error)
	SeedIfEmpty(ctx context.Context, questions []db_models.Question) (bool, error)
}

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepositoryInterface {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) ListActive(ctx context.Context) ([]db_models.Question, error) {
	questions := []db_models.Question{}
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("order_index ASC, created_at ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) ListAll(ctx context.Context) ([]db_models.Question, error) {
	questions := []db_models.Question{}
	err := r.db.WithContext(ctx).
		Order("order_index ASC, created_at ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Question, error) {
	var question db_models.Question
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *db_models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *QuestionRepository) Save(ctx context.Context, question *db_models.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}

// ToggleActive flips is_active in a single statement so concurrent toggles
// cannot both read the same old value.
func (r *QuestionRepository) ToggleActive(ctx context.Context, id uuid.UUID) (*db_models.Question, error) {
	var question db_models.Question
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db_models.Question{}).
			Where("id = ?", id).
			UpdateColumns(map[string]interface{}{
				"is_active":  gorm.Expr("NOT is_active"),
				"updated_at": tx.NowFunc(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&question).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

// DeleteCascade removes the question together with its responses and its
// analytics row. It reports false when the question did not exist.
func (r *QuestionRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&db_models.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&db_models.AnalyticsSummary{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&db_models.Question{})
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		if !found {
			// nothing to cascade from, undo the (empty) child deletes
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return found, err
}

// SeedIfEmpty inserts questions only when the catalog has no rows at all.
func (r *QuestionRepository) SeedIfEmpty(ctx context.Context, questions []db_models.Question) (bool, error) {
	seeded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&db_models.Question{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 || len(questions) == 0 {
			return nil
		}
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		seeded = true
		return nil
	})
	return seeded, err
}
