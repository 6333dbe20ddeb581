package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"betafeedback/internal/models/request_models"
	"betafeedback/internal/services"
	"betafeedback/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	sessionService   services.SessionServiceInterface
}

func NewDashboardController(
	dashboardService services.DashboardServiceInterface,
	sessionService services.SessionServiceInterface,
) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		sessionService:   sessionService,
	}
}

// GetAnalytics godoc
// @Summary Recompute and list per-question analytics
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} db_models.AnalyticsSummary
// @Router /admin/analytics [get]
func (d *DashboardController) GetAnalytics(c *gin.Context) {
	summaries, err := d.dashboardService.GetAnalytics(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, summaries, "Analytics retrieved successfully")
}

// UpdateAnalytics godoc
// @Summary Rebuild the per-question analytics now
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /admin/analytics/update [post]
func (d *DashboardController) UpdateAnalytics(c *gin.Context) {
	summaries, err := d.dashboardService.RecomputeAnalytics(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"updated": len(summaries)}, "Analytics updated successfully")
}

// GetCategoryAnalytics godoc
// @Summary Analytics per question category
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param category query string false "Limit to one category"
// @Success 200 {array} response_models.CategoryAnalytics
// @Router /admin/analytics/by-category [get]
func (d *DashboardController) GetCategoryAnalytics(c *gin.Context) {
	result, err := d.dashboardService.GetCategoryAnalytics(c.Request.Context(), c.Query("category"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Category analytics retrieved successfully")
}

// GetTrends godoc
// @Summary Daily trends
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param days query int false "Days to cover" default(30) minimum(1) maximum(365)
// @Success 200 {object} response_models.TrendReport
// @Router /admin/analytics/trends [get]
func (d *DashboardController) GetTrends(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(services.DefaultTrendDays)))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "days must be a number between 1 and 365")
		return
	}
	if days == 0 {
		// 0 would silently fall back to the default period
		days = -1
	}

	report, err := d.dashboardService.GetTrends(c.Request.Context(), days)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "Trends retrieved successfully")
}

// GetPerformance godoc
// @Summary Best, worst, most answered and most positive questions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response_models.PerformanceReport
// @Router /admin/analytics/performance [get]
func (d *DashboardController) GetPerformance(c *gin.Context) {
	report, err := d.dashboardService.GetPerformance(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "Performance metrics retrieved successfully")
}

// GetCompletion godoc
// @Summary Completion rate and completion time buckets
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response_models.CompletionReport
// @Router /admin/analytics/completion [get]
func (d *DashboardController) GetCompletion(c *gin.Context) {
	report, err := d.dashboardService.GetCompletion(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "Completion analytics retrieved successfully")
}

// GetDashboardStats godoc
// @Summary Dashboard headline figures
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response_models.DashboardStats
// @Router /admin/dashboard-stats [get]
func (d *DashboardController) GetDashboardStats(c *gin.Context) {
	stats, err := d.dashboardService.GetDashboardStats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "Dashboard stats retrieved successfully")
}

// ListSessions godoc
// @Summary Paginated sessions, newest first
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(100) minimum(1) maximum(1000)
// @Param offset query int false "Rows to skip" default(0) minimum(0)
// @Success 200 {object} response_models.SessionPage
// @Failure 400 {object} utils.APIResponse
// @Router /admin/sessions [get]
func (d *DashboardController) ListSessions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(request_models.DefaultSessionLimit)))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPagination)
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPagination)
		return
	}

	page, err := d.sessionService.ListSessions(c.Request.Context(), request_models.Pagination{Limit: limit, Offset: offset})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "Sessions retrieved successfully")
}

// ListResponses godoc
// @Summary Every response with its question and session
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} repositories.ResponseDetailRow
// @Router /admin/responses [get]
func (d *DashboardController) ListResponses(c *gin.Context) {
	rows, err := d.dashboardService.ListResponses(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, rows, "Responses retrieved successfully")
}
