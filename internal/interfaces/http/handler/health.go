package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tamarind/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DatabasePinger is satisfied by persistence.Database
type DatabasePinger interface {
	Ping() error
}

// ContextPinger is satisfied by the Redis idempotency store
type ContextPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness checks
type HealthHandler struct {
	db    DatabasePinger
	cache ContextPinger
}

// NewHealthHandler creates a new HealthHandler. cache may be nil when the
// in-memory idempotency store is in use.
func NewHealthHandler(db DatabasePinger, cache ContextPinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthResponse reports check results
type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	Time     string `json:"time" example:"2026-01-23T12:00:00Z"`
	Database string `json:"database,omitempty" example:"ok"`
	Cache    string `json:"cache,omitempty" example:"ok"`
}

// Live godoc
// @ID           healthLive
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().Format(time.RFC3339),
	})
}

// Ready godoc
// @ID           healthReady
// @Summary      Readiness check
// @Description  Pings the database, and Redis when it backs the idempotency store
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	reqLog := logger.GetGinLogger(c)
	resp := HealthResponse{
		Status:   "healthy",
		Time:     time.Now().Format(time.RFC3339),
		Database: "ok",
	}
	status := http.StatusOK

	if err := h.db.Ping(); err != nil {
		reqLog.Warn("Readiness check failed", zap.String("dependency", "database"), zap.Error(err))
		resp.Database = "error"
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		resp.Cache = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			reqLog.Warn("Readiness check failed", zap.String("dependency", "redis"), zap.Error(err))
			resp.Cache = "error"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, resp)
}
