package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler responde el estado de las dependencias externas.
type HealthHandler struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redis: redisClient}
}

// Check maneja GET /health.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	result := gin.H{"status": "ok"}

	if h.pool != nil {
		if err := h.pool.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			result["status"] = "degraded"
			result["database"] = "down"
		} else {
			result["database"] = "up"
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			// El cache es opcional: se reporta pero no degrada el estado.
			result["cache"] = "down"
		} else {
			result["cache"] = "up"
		}
	}

	c.JSON(status, result)
}
