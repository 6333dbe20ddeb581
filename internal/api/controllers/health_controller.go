package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"betafeedback/internal/config"
)

type HealthController struct {
	environment string
	started     time.Time
}

func NewHealthController(cfg *config.Config) *HealthController {
	return &HealthController{environment: cfg.Environment, started: time.Now()}
}

// Health godoc
// @Summary Liveness and uptime
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.started).Seconds(),
		"environment": h.environment,
	})
}
