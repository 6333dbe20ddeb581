package response_models

import (
	"time"

	"betafeedback/internal/models/db_models"
)

type SubmissionResult struct {
	Session   *db_models.FeedbackSession `json:"session"`
	Responses []db_models.Response       `json:"responses"`
}

type SessionDetail struct {
	Session   *db_models.FeedbackSession `json:"session"`
	Responses []db_models.Response       `json:"responses"`
}

type SessionPage struct {
	Sessions []db_models.FeedbackSession `json:"sessions"`
	Total    int64                       `json:"total"`
	Limit    int                         `json:"limit"`
	Offset   int                         `json:"offset"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type TokenInfo struct {
	Valid     bool      `json:"valid"`
	Role      string    `json:"role"`
	Email     string    `json:"email,omitempty"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
