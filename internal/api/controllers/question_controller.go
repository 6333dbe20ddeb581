package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"betafeedback/internal/models/request_models"
	"betafeedback/internal/services"
	"betafeedback/pkg/utils"
)

type QuestionController struct {
	questionService services.QuestionServiceInterface
}

func NewQuestionController(questionService services.QuestionServiceInterface) *QuestionController {
	return &QuestionController{questionService: questionService}
}

func questionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "Invalid question ID")
		return uuid.Nil, false
	}
	return id, true
}

// ListQuestions godoc
// @Summary List every question, inactive ones included
// @Tags Questions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} db_models.Question
// @Router /admin/questions [get]
func (q *QuestionController) ListQuestions(c *gin.Context) {
	questions, err := q.questionService.ListAll(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, questions, "Questions retrieved successfully")
}

// CreateQuestion godoc
// @Summary Create a question
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CreateQuestionRequest true "Question"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /admin/questions [post]
func (q *QuestionController) CreateQuestion(c *gin.Context) {
	var req request_models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, utils.BindingErrors(err))
		return
	}

	question, err := q.questionService.Create(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, question, "Question created successfully")
}

// UpdateQuestion godoc
// @Summary Update a question
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Param request body request_models.UpdateQuestionRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /admin/questions/{id} [put]
func (q *QuestionController) UpdateQuestion(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	var req request_models.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, utils.BindingErrors(err))
		return
	}

	question, err := q.questionService.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, question, "Question updated successfully")
}

// DeleteQuestion godoc
// @Summary Delete a question together with its responses
// @Tags Questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /admin/questions/{id} [delete]
func (q *QuestionController) DeleteQuestion(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	if err := q.questionService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Question deleted successfully")
}

// ToggleQuestion godoc
// @Summary Flip a question between active and inactive
// @Tags Questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /admin/questions/{id}/toggle [patch]
func (q *QuestionController) ToggleQuestion(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	question, err := q.questionService.ToggleActive(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, question, "Question status toggled successfully")
}
