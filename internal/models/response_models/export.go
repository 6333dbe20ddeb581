package response_models

import (
	"strconv"
)

// ExportRecord is one flattened response as it leaves the service. It has no
// field that identifies the submitter.
type ExportRecord struct {
	ID                 string  `json:"id"`
	SessionID          string  `json:"session_id"`
	QuestionID         string  `json:"question_id"`
	QuestionText       string  `json:"question_text"`
	QuestionType       string  `json:"question_type"`
	Category           string  `json:"category"`
	ResponseValue      *string `json:"response_value"`
	RatingValue        *int    `json:"rating_value"`
	CreatedAt          string  `json:"created_at"`
	SessionStatus      string  `json:"session_status"`
	SessionCreatedAt   string  `json:"session_created_at"`
	SessionCompletedAt *string `json:"session_completed_at"`
}

var exportColumns = []string{
	"id", "session_id", "question_id", "question_text", "question_type", "category",
	"response_value", "rating_value", "created_at",
	"session_status", "session_created_at", "session_completed_at",
}

func (r ExportRecord) CSVHeader() []string {
	return append([]string(nil), exportColumns...)
}

func (r ExportRecord) CSVRow() []string {
	return []string{
		r.ID, r.SessionID, r.QuestionID, r.QuestionText, r.QuestionType, r.Category,
		strOrEmpty(r.ResponseValue), intOrEmpty(r.RatingValue), r.CreatedAt,
		r.SessionStatus, r.SessionCreatedAt, strOrEmpty(r.SessionCompletedAt),
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

type ExportEnvelope struct {
	ExportDate   string         `json:"exportDate"`
	TotalRecords int            `json:"totalRecords"`
	Data         []ExportRecord `json:"data"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Records     int
	ArchiveKey  string
}
