package request_models

type CreateQuestionRequest struct {
	QuestionText string   `json:"question_text" binding:"required,max=2000"`
	QuestionType string   `json:"question_type" binding:"required,question_type"`
	Category     string   `json:"category" binding:"required,question_category"`
	OrderIndex   int      `json:"order_index" binding:"required,min=1"`
	IsActive     *bool    `json:"is_active"`
	Options      []string `json:"options" binding:"omitempty,dive,max=500"`
}

// UpdateQuestionRequest is a partial update; nil fields are left untouched.
type UpdateQuestionRequest struct {
	QuestionText *string   `json:"question_text" binding:"omitempty,min=1,max=2000"`
	QuestionType *string   `json:"question_type" binding:"omitempty,question_type"`
	Category     *string   `json:"category" binding:"omitempty,question_category"`
	OrderIndex   *int      `json:"order_index" binding:"omitempty,min=1"`
	IsActive     *bool     `json:"is_active"`
	Options      *[]string `json:"options"`
}
