package request_models

type StartSessionRequest struct {
	UserEmail *string `json:"userEmail"`
}

// AnswerInput is one submitted answer. ResponseValue and RatingValue are the
// field names older clients send.
type AnswerInput struct {
	Value         *string  `json:"value"`
	Rating        *float64 `json:"rating"`
	ResponseValue *string  `json:"responseValue"`
	RatingValue   *float64 `json:"ratingValue"`
}

func (a AnswerInput) Text() *string {
	if a.Value != nil {
		return a.Value
	}
	return a.ResponseValue
}

func (a AnswerInput) Score() *float64 {
	if a.Rating != nil {
		return a.Rating
	}
	return a.RatingValue
}

type SubmitFeedbackRequest struct {
	SessionID string                 `json:"sessionId" binding:"required,uuid"`
	Responses map[string]AnswerInput `json:"responses" binding:"required"`
}
