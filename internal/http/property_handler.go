package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bricks-api/internal/cache"
	"bricks-api/internal/domain"
	"bricks-api/internal/service"
)

// PropertyHandler mantiene dependencias para endpoints de propiedades.
type PropertyHandler struct {
	logger     *zap.Logger
	properties *service.PropertyService
}

func NewPropertyHandler(logger *zap.Logger, properties *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{logger: logger, properties: properties}
}

// Create maneja POST /property.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description" binding:"required"`
		Price       float64 `json:"price" binding:"required"`
		Size        float64 `json:"size" binding:"required"`
		Sold        bool    `json:"sold"`
		Category    string  `json:"category" binding:"required"`
		Address     struct {
			Street  string `json:"street" binding:"required"`
			City    string `json:"city" binding:"required"`
			State   string `json:"state" binding:"required"`
			Zip     int    `json:"zip" binding:"required"`
			Country string `json:"country" binding:"required"`
		} `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create property request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	property, err := h.properties.CreateProperty(c.Request.Context(), service.CreatePropertyInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Size:        req.Size,
		Sold:        req.Sold,
		Category:    req.Category,
		Address: domain.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			Zip:     req.Address.Zip,
			Country: req.Address.Country,
		},
	})
	if err != nil && !errors.Is(err, cache.ErrInvalidationMismatch) {
		h.logger.Error("create property failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create property"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// Get maneja GET /property/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.properties.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPropertyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
			return
		}
		h.logger.Error("get property failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get property"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": property})
}

// Search maneja GET /property.
func (h *PropertyHandler) Search(c *gin.Context) {
	filter := domain.PropertyFilter{
		Offset: intQuery(c, "offset", 0),
		Limit:  intQuery(c, "limit", 10),
	}
	if raw := c.Query("categories"); raw != "" {
		filter.Categories = strings.Split(raw, ",")
	}
	if raw := c.Query("sold"); raw != "" {
		sold := raw == "true"
		filter.Sold = &sold
	}

	page, err := h.properties.SearchProperties(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("search properties failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not search properties"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListCategories maneja GET /category.
func (h *PropertyHandler) ListCategories(c *gin.Context) {
	categories, err := h.properties.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("list categories failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
