package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse reports the state of each dependency.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandlers serves the liveness endpoint.
type HealthHandlers struct {
	logger *logging.SafeLogger
	checks map[string]HealthCheck
	clock  utils.Clock
}

// NewHealthHandlers creates a health handler over the named checks.
func NewHealthHandlers(logger *logging.SafeLogger, checks map[string]HealthCheck) *HealthHandlers {
	return &HealthHandlers{logger: logger, checks: checks, clock: utils.SystemClock}
}

// Health godoc
// @Summary Health check
// @Description Pings every configured dependency.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: h.clock(),
		Services:  make(map[string]string, len(h.checks)),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("service", name), zap.Error(err))
			health.Status = "unhealthy"
			health.Services[name] = "unhealthy"
			continue
		}
		health.Services[name] = "healthy"
	}

	if health.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
