package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bricks-api/internal/service"
)

// ScheduleHandler mantiene dependencias para endpoints de visitas.
type ScheduleHandler struct {
	logger    *zap.Logger
	schedules *service.ScheduleService
}

func NewScheduleHandler(logger *zap.Logger, schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{logger: logger, schedules: schedules}
}

// Create maneja POST /schedule.
func (h *ScheduleHandler) Create(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		PropertyID string `json:"property_id" binding:"required"`
		Date       string `json:"date" binding:"required"`
		Time       string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	schedule, err := h.schedules.CreateSchedule(c.Request.Context(), claims.UserID, req.PropertyID, date, req.Time)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScheduleTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "schedule slot already taken"})
			return
		case errors.Is(err, service.ErrPropertyNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
			return
		default:
			h.logger.Error("create schedule failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create schedule"})
			return
		}
	}
	c.JSON(http.StatusCreated, gin.H{"schedule": schedule})
}

// ListByProperty maneja GET /schedule/:propertyId.
func (h *ScheduleHandler) ListByProperty(c *gin.Context) {
	schedules, err := h.schedules.ListSchedules(c.Request.Context(), c.Param("propertyId"))
	if err != nil {
		h.logger.Error("list schedules failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list schedules"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}
