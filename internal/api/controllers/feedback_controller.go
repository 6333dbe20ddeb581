package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"betafeedback/internal/models/request_models"
	"betafeedback/internal/services"
	"betafeedback/pkg/utils"
)

type FeedbackController struct {
	sessionService  services.SessionServiceInterface
	feedbackService services.FeedbackServiceInterface
	questionService services.QuestionServiceInterface
}

func NewFeedbackController(
	sessionService services.SessionServiceInterface,
	feedbackService services.FeedbackServiceInterface,
	questionService services.QuestionServiceInterface,
) *FeedbackController {
	return &FeedbackController{
		sessionService:  sessionService,
		feedbackService: feedbackService,
		questionService: questionService,
	}
}

// StartSession godoc
// @Summary Start a feedback session
// @Description Creates a pending session, optionally tied to an email
// @Tags Feedback
// @Accept json
// @Produce json
// @Param request body request_models.StartSessionRequest false "Optional tester email"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /feedback/start [post]
func (f *FeedbackController) StartSession(c *gin.Context) {
	var req request_models.StartSessionRequest
	// an empty body starts an anonymous session
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondValidationError(c, utils.BindingErrors(err))
		return
	}

	session, err := f.sessionService.StartSession(c.Request.Context(), req.UserEmail)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, session, "Feedback session started")
}

// GetQuestions godoc
// @Summary List active questions
// @Tags Feedback
// @Produce json
// @Success 200 {array} db_models.Question
// @Router /feedback/questions [get]
func (f *FeedbackController) GetQuestions(c *gin.Context) {
	questions, err := f.questionService.ListActive(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, questions, "Questions retrieved successfully")
}

// SubmitFeedback godoc
// @Summary Submit answers for a session
// @Description Validates every answer, stores them and completes the session in one step
// @Tags Feedback
// @Accept json
// @Produce json
// @Param request body request_models.SubmitFeedbackRequest true "Answers keyed by question id"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /feedback/submit [post]
func (f *FeedbackController) SubmitFeedback(c *gin.Context) {
	var req request_models.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, utils.BindingErrors(err))
		return
	}

	result, err := f.feedbackService.SubmitFeedback(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Feedback submitted successfully")
}

// GetSession godoc
// @Summary Get a session with its responses
// @Tags Feedback
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /feedback/session/{id} [get]
func (f *FeedbackController) GetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "Invalid session ID")
		return
	}

	detail, err := f.sessionService.GetSession(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, detail, "Session retrieved successfully")
}

// Health godoc
// @Summary Report whether the database answers
// @Tags Feedback
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /feedback/health [get]
func (f *FeedbackController) Health(c *gin.Context) {
	if err := f.sessionService.Ping(c.Request.Context()); err != nil {
		_ = c.Error(err)
		utils.RespondError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Database connection failed")
		return
	}
	utils.RespondSuccess(c, gin.H{"status": "OK", "database": "connected"}, "Feedback service is healthy")
}
