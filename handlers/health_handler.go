package handlers

import (
	"net/http"

	"github.com/NomadCrew/comment-board/logger"
	"github.com/NomadCrew/comment-board/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	healthService *services.HealthService
	log           *zap.SugaredLogger
}

func NewHealthHandler(healthService *services.HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
		log:           logger.GetLogger(),
	}
}

// LivenessCheck reports that the process is serving requests.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck fails only when a record log is unreadable.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())
	c.JSON(health.Status.HTTPStatus(), health)
}

// DetailedHealth reports every component. It shares readiness's status code so
// monitors polling either endpoint see an unreadable store.
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())
	if down := health.DownComponents(); len(down) > 0 {
		h.log.Warnw("Health check reports components down", "components", down, "status", health.Status)
	}
	c.JSON(health.Status.HTTPStatus(), health)
}
