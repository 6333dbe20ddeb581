package controllers

import (
	"github.com/gin-gonic/gin"

	"betafeedback/internal/models/request_models"
	"betafeedback/internal/services"
	"betafeedback/pkg/middleware"
	"betafeedback/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{accountService: accountService}
}

// Login godoc
// @Summary Admin login
// @Description Exchanges the admin credential for a bearer token valid for 24 hours
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Credential"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /admin/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, utils.BindingErrors(err))
		return
	}

	res, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, res, "Login successful")
}

// Verify godoc
// @Summary Verify the current token
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /admin/verify [get]
func (a *AccountController) Verify(c *gin.Context) {
	info, err := a.accountService.Verify(middleware.BearerToken(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, info, "Token is valid")
}

// Logout godoc
// @Summary Revoke the token used for this request
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /admin/logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	if err := a.accountService.Logout(middleware.ClaimsFrom(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Logged out")
}
