package health

import (
	"context"
	"net/http"

	"questionboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	Check(c *gin.Context)
}

// Checker reports the state of the backing services.
type Checker interface {
	Check(ctx context.Context) utils.HealthStatus
}

type handler struct {
	checker Checker
}

func NewHandler(checker Checker) Handler {
	return &handler{checker: checker}
}

// @Summary Health check
// @Description Check the health status of the database and, when configured, Redis
// @Tags Health
// @Produce json
// @Success 200 {object} utils.HealthStatus
// @Failure 503 {object} utils.HealthStatus
// @Router /api/health [get]
func (h *handler) Check(c *gin.Context) {
	status := h.checker.Check(c.Request.Context())
	if status.Status == utils.StatusHealthy {
		c.JSON(http.StatusOK, status)
	} else {
		c.JSON(http.StatusServiceUnavailable, status)
	}
}
