package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"betafeedback/internal/models/response_models"
	"betafeedback/internal/repositories"
	"betafeedback/pkg/utils"
)

const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
)

// Archiver stores a copy of an export and returns its object key.
type Archiver interface {
	Archive(ctx context.Context, filename, contentType string, body []byte) (string, error)
}

type ExportServiceInterface interface {
	Export(ctx context.Context, format string, archive bool) (*response_models.ExportFile, error)
}

type ExportService struct {
	feedbackRepo repositories.FeedbackRepositoryInterface
	archiver     Archiver
	logger       *zap.Logger
	now          func() time.Time
}

func NewExportService(feedbackRepo repositories.FeedbackRepositoryInterface, archiver Archiver, logger *zap.Logger) ExportServiceInterface {
	return &ExportService{
		feedbackRepo: feedbackRepo,
		archiver:     archiver,
		logger:       logger.Named("export"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SanitizeForExport flattens joined rows into export records. The
// submitter's email is not copied.
func SanitizeForExport(rows []repositories.ResponseDetailRow) []response_models.ExportRecord {
	out := make([]response_models.ExportRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, response_models.ExportRecord{
			ID:                 r.ID.String(),
			SessionID:          r.SessionID.String(),
			QuestionID:         r.QuestionID.String(),
			QuestionText:       r.QuestionText,
			QuestionType:       r.QuestionType,
			Category:           r.Category,
			ResponseValue:      r.ResponseValue,
			RatingValue:        r.RatingValue,
			CreatedAt:          utils.FormatRFC3339(r.CreatedAt),
			SessionStatus:      r.SessionStatus,
			SessionCreatedAt:   utils.FormatRFC3339(r.SessionCreatedAt),
			SessionCompletedAt: utils.FormatRFC3339Ptr(r.SessionCompletedAt),
		})
	}
	return out
}

func (s *ExportService) Export(ctx context.Context, format string, archive bool) (*response_models.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatJSON
	}
	if format != ExportFormatJSON && format != ExportFormatCSV {
		return nil, utils.ErrInvalidExportFormat
	}

	rows, err := s.feedbackRepo.ListDetails(ctx)
	if err != nil {
		return nil, storeError("load responses for export", err)
	}
	records := SanitizeForExport(rows)
	now := s.now()

	file := &response_models.ExportFile{
		Filename: "feedback-export-" + utils.DateKey(now) + "." + format,
		Records:  len(records),
	}
	switch format {
	case ExportFormatCSV:
		file.ContentType = "text/csv; charset=utf-8"
		file.Body, err = utils.ConvertToCSV(records)
	default:
		file.ContentType = "application/json; charset=utf-8"
		file.Body, err = json.MarshalIndent(response_models.ExportEnvelope{
			ExportDate:   utils.FormatRFC3339(now),
			TotalRecords: len(records),
			Data:         records,
		}, "", "  ")
	}
	if err != nil {
		return nil, err
	}

	if archive {
		key, err := s.archiver.Archive(ctx, file.Filename, file.ContentType, file.Body)
		if err != nil {
			return nil, err
		}
		file.ArchiveKey = key
	}

	s.logger.Info("Responses exported",
		zap.String("format", format),
		zap.Int("records", file.Records),
		zap.Bool("archived", file.ArchiveKey != ""))
	return file, nil
}
