package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sunrinpass/server/internal/constants"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// HealthCheck reports liveness of the server and its dependencies.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthCheckResponse{
		Status:    "healthy",
		Version:   constants.AppVersion,
		Timestamp: time.Now(),
		Checks:    make(map[string]HealthCheck),
	}

	dbStatus := h.checkDatabase(ctx)
	response.Checks["database"] = dbStatus
	if dbStatus.Status != "healthy" {
		response.Status = "unhealthy"
	}

	redisStatus := h.checkRedis(ctx)
	response.Checks["redis"] = redisStatus
	if redisStatus.Status == "unhealthy" {
		response.Status = "unhealthy"
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	sqlDB, err := h.db.DB()
	if err != nil {
		return HealthCheck{Status: "unhealthy", Message: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return HealthCheck{Status: "unhealthy", Message: err.Error()}
	}
	return HealthCheck{Status: "healthy"}
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	if h.rdb == nil {
		return HealthCheck{Status: "disabled"}
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		return HealthCheck{Status: "unhealthy", Message: err.Error()}
	}
	return HealthCheck{Status: "healthy"}
}
