package services

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"betafeedback/internal/config"
	"betafeedback/internal/models/db_models"
	"betafeedback/internal/models/request_models"
	"betafeedback/internal/repositories"
	"betafeedback/pkg/utils"
)

//go:embed default_questions.yaml
var defaultQuestionsYAML []byte

type QuestionServiceInterface interface {
	ListActive(ctx context.Context) ([]db_models.Question, error)
	ListAll(ctx context.Context) ([]db_models.Question, error)
	Create(ctx context.Context, req request_models.CreateQuestionRequest) (*db_models.Question, error)
	Update(ctx context.Context, id uuid.UUID, req request_models.UpdateQuestionRequest) (*db_models.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleActive(ctx context.Context, id uuid.UUID) (*db_models.Question, error)
}

type QuestionService struct {
	questionRepo repositories.QuestionRepositoryInterface
	seedFile     string
	logger       *zap.Logger

	seedMu sync.Mutex
}

func NewQuestionService(questionRepo repositories.QuestionRepositoryInterface, cfg *config.Config, logger *zap.Logger) QuestionServiceInterface {
	return &QuestionService{
		questionRepo: questionRepo,
		seedFile:     cfg.QuestionSeedFile,
		logger:       logger.Named("questions"),
	}
}

type seedQuestion struct {
	QuestionText string   `yaml:"question_text"`
	QuestionType string   `yaml:"question_type"`
	Category     string   `yaml:"category"`
	OrderIndex   int      `yaml:"order_index"`
	IsActive     *bool    `yaml:"is_active"`
	Options      []string `yaml:"options"`
}

type seedCatalog struct {
	Questions []seedQuestion `yaml:"questions"`
}

// ParseSeedCatalog decodes a YAML question catalog and validates every entry
// the same way an admin created question is validated.
func ParseSeedCatalog(data []byte) ([]db_models.Question, error) {
	var catalog seedCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse question catalog: %w", err)
	}

	questions := make([]db_models.Question, 0, len(catalog.Questions))
	for i, sq := range catalog.Questions {
		q, verr := buildQuestion(request_models.CreateQuestionRequest{
			QuestionText: sq.QuestionText,
			QuestionType: sq.QuestionType,
			Category:     sq.Category,
			OrderIndex:   sq.OrderIndex,
			IsActive:     sq.IsActive,
			Options:      sq.Options,
		})
		if verr != nil {
			return nil, fmt.Errorf("question catalog entry %d: %w", i+1, verr)
		}
		questions = append(questions, *q)
	}
	return questions, nil
}

func (s *QuestionService) loadSeed() ([]db_models.Question, error) {
	data := defaultQuestionsYAML
	if s.seedFile != "" {
		b, err := os.ReadFile(s.seedFile)
		if err != nil {
			return nil, fmt.Errorf("read question seed file: %w", err)
		}
		data = b
	}
	return ParseSeedCatalog(data)
}

// ensureSeeded fills an empty catalog with the default questions.
func (s *QuestionService) ensureSeeded(ctx context.Context) error {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	seed, err := s.loadSeed()
	if err != nil {
		return err
	}
	seeded, err := s.questionRepo.SeedIfEmpty(ctx, seed)
	if err != nil {
		return storeError("seed questions", err)
	}
	if seeded {
		s.logger.Info("Seeded default question catalog", zap.Int("count", len(seed)))
	}
	return nil
}

func (s *QuestionService) ListActive(ctx context.Context) ([]db_models.Question, error) {
	questions, err := s.questionRepo.ListActive(ctx)
	if err != nil {
		return nil, storeError("list active questions", err)
	}
	if len(questions) > 0 {
		return questions, nil
	}

	all, err := s.questionRepo.ListAll(ctx)
	if err != nil {
		return nil, storeError("list questions", err)
	}
	if len(all) > 0 {
		// every question is switched off, nothing to seed
		return questions, nil
	}

	if err := s.ensureSeeded(ctx); err != nil {
		return nil, err
	}
	questions, err = s.questionRepo.ListActive(ctx)
	if err != nil {
		return nil, storeError("list active questions", err)
	}
	return questions, nil
}

func (s *QuestionService) ListAll(ctx context.Context) ([]db_models.Question, error) {
	questions, err := s.questionRepo.ListAll(ctx)
	if err != nil {
		return nil, storeError("list questions", err)
	}
	return questions, nil
}

func (s *QuestionService) Create(ctx context.Context, req request_models.CreateQuestionRequest) (*db_models.Question, error) {
	question, verr := buildQuestion(req)
	if verr != nil {
		return nil, verr
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, storeError("create question", err)
	}
	s.logger.Info("Question created",
		zap.String("question_id", question.ID.String()),
		zap.String("type", string(question.QuestionType)))
	return question, nil
}

func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req request_models.UpdateQuestionRequest) (*db_models.Question, error) {
	question, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find question", err)
	}
	if question == nil {
		return nil, utils.ErrQuestionNotFound
	}

	if req.QuestionText != nil {
		question.QuestionText = strings.TrimSpace(*req.QuestionText)
	}
	if req.QuestionType != nil {
		question.QuestionType = db_models.QuestionType(*req.QuestionType)
	}
	if req.Category != nil {
		question.Category = *req.Category
	}
	if req.OrderIndex != nil {
		question.OrderIndex = *req.OrderIndex
	}
	if req.IsActive != nil {
		question.IsActive = *req.IsActive
	}
	if req.Options != nil {
		question.Options = cleanOptions(*req.Options)
	}

	if verr := validateQuestion(question); verr != nil {
		return nil, verr
	}
	if err := s.questionRepo.Save(ctx, question); err != nil {
		return nil, storeError("update question", err)
	}
	return question, nil
}

func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.questionRepo.DeleteCascade(ctx, id)
	if err != nil {
		return storeError("delete question", err)
	}
	if !found {
		return utils.ErrQuestionNotFound
	}
	s.logger.Info("Question deleted with its responses", zap.String("question_id", id.String()))
	return nil
}

func (s *QuestionService) ToggleActive(ctx context.Context, id uuid.UUID) (*db_models.Question, error) {
	question, err := s.questionRepo.ToggleActive(ctx, id)
	if err != nil {
		return nil, storeError("toggle question", err)
	}
	if question == nil {
		return nil, utils.ErrQuestionNotFound
	}
	return question, nil
}

func buildQuestion(req request_models.CreateQuestionRequest) (*db_models.Question, *utils.ValidationError) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	q := &db_models.Question{
		QuestionText: strings.TrimSpace(req.QuestionText),
		QuestionType: db_models.QuestionType(req.QuestionType),
		Category:     req.Category,
		OrderIndex:   req.OrderIndex,
		IsActive:     active,
		Options:      cleanOptions(req.Options),
	}
	if verr := validateQuestion(q); verr != nil {
		return nil, verr
	}
	return q, nil
}

func validateQuestion(q *db_models.Question) *utils.ValidationError {
	var errs []utils.FieldError
	if q.QuestionText == "" {
		errs = append(errs, utils.FieldError{Field: "question_text", Message: "question text is required"})
	}
	if !utils.IsValidQuestionType(string(q.QuestionType)) {
		errs = append(errs, utils.FieldError{Field: "question_type", Message: "must be one of " + strings.Join(utils.QuestionTypes, ", ")})
	}
	if !utils.IsValidCategory(q.Category) {
		errs = append(errs, utils.FieldError{Field: "category", Message: "must be one of " + strings.Join(utils.Categories, ", ")})
	}
	if q.OrderIndex < 1 {
		errs = append(errs, utils.FieldError{Field: "order_index", Message: "must be at least 1"})
	}
	if q.QuestionType == db_models.QuestionTypeMultipleChoice && len(q.Options) == 0 {
		errs = append(errs, utils.FieldError{Field: "options", Message: "multiple choice questions need at least one option"})
	}
	if len(errs) > 0 {
		return utils.NewValidationError("Invalid question", errs...)
	}
	return nil
}

// cleanOptions trims options and drops the empty ones.
func cleanOptions(options []string) datatypes.JSONSlice[string] {
	if options == nil {
		return nil
	}
	out := make(datatypes.JSONSlice[string], 0, len(options))
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
