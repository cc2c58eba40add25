package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bricks-api/internal/domain"
	"bricks-api/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	tokens *service.TokenService,
	authH *AuthHandler,
	propertyH *PropertyHandler,
	scheduleH *ScheduleHandler,
	userH *UserHandler,
	uploadH *UploadHandler,
	healthH *HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	requireAuth := AuthMiddleware(tokens)
	requireAdmin := RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin)

	r.GET("/health", healthH.Check)

	auth := r.Group("/auth")
	auth.POST("/signup", authH.Signup)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/oauth", authH.OAuthCallback)
	auth.GET("/signup/verify/:token", authH.VerifyEmail)
	auth.POST("/forgot-password", authH.ForgotPassword)
	auth.POST("/reset-password", authH.ResetPassword)
	auth.GET("", requireAuth, authH.Me)
	auth.POST("/logout", requireAuth, authH.Logout)
	auth.POST("/resend-verification", requireAuth, authH.ResendVerification)
	auth.PATCH("/change-password", requireAuth, authH.ChangePassword)

	property := r.Group("/property")
	property.GET("", propertyH.Search)
	property.GET("/:id", propertyH.Get)
	property.POST("", requireAuth, requireAdmin, propertyH.Create)

	r.GET("/category", propertyH.ListCategories)

	schedule := r.Group("/schedule", requireAuth)
	schedule.POST("", scheduleH.Create)
	schedule.GET("/:propertyId", scheduleH.ListByProperty)

	users := r.Group("/user", requireAuth, requireAdmin)
	users.GET("", userH.List)
	users.GET("/:id", userH.Get)
	users.PATCH("/:id/role", RequireRole(domain.RoleSuperAdmin), userH.ChangeRole)
	users.DELETE("/:id", RequireRole(domain.RoleSuperAdmin), userH.Delete)

	if uploadH != nil {
		dms := r.Group("/dms", requireAuth, requireAdmin)
		dms.POST("/upload", uploadH.Upload)
		dms.POST("/uploads", uploadH.UploadMany)
		dms.DELETE("/:key", uploadH.Delete)
		dms.GET("/:key/url", uploadH.SignedURL)
	}

	return r
}
