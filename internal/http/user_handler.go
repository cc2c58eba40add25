package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bricks-api/internal/domain"
	"bricks-api/internal/service"
)

// UserHandler mantiene dependencias para endpoints de administracion de
// usuarios.
type UserHandler struct {
	logger *zap.Logger
	users  *service.UserService
}

func NewUserHandler(logger *zap.Logger, users *service.UserService) *UserHandler {
	return &UserHandler{logger: logger, users: users}
}

// List maneja GET /user.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Get maneja GET /user/:id.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("get user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangeRole maneja PATCH /user/:id/role.
func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.users.ChangeRole(c.Request.Context(), c.Param("id"), domain.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		default:
			h.logger.Error("change role failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not change role"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Delete maneja DELETE /user/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("delete user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete user"})
		return
	}
	c.Status(http.StatusNoContent)
}
