package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"betafeedback/internal/services"
	"betafeedback/pkg/utils"
)

const ArchiveKeyHeader = "X-Export-Archive-Key"

type ExportController struct {
	exportService services.ExportServiceInterface
}

func NewExportController(exportService services.ExportServiceInterface) *ExportController {
	return &ExportController{exportService: exportService}
}

// Export godoc
// @Summary Download all responses
// @Description Responses joined with question and session data, without submitter emails
// @Tags Admin
// @Produce json
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "json or csv" default(json)
// @Param archive query bool false "Also store the file in the export bucket"
// @Success 200 {file} file
// @Failure 400 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /admin/export [get]
func (e *ExportController) Export(c *gin.Context) {
	archive, err := strconv.ParseBool(c.DefaultQuery("archive", "false"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.CodeValidation, "archive must be true or false")
		return
	}

	file, err := e.exportService.Export(c.Request.Context(), c.DefaultQuery("format", services.ExportFormatJSON), archive)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	if file.ArchiveKey != "" {
		c.Header(ArchiveKeyHeader, file.ArchiveKey)
	}
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
