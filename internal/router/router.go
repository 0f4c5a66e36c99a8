package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"docanalyzer/internal/handler"
	"docanalyzer/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log *zap.Logger,
	allowedOrigins []string,
	documentH *handler.DocumentHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	documents := v1.Group("/documents")
	documents.POST("/extract", documentH.Extract)
	documents.GET("/export", documentH.Export)
	documents.POST("", documentH.Create)
	documents.GET("", documentH.List)
	documents.GET("/:id", documentH.GetByID)
	documents.GET("/:id/image", documentH.Image)
	documents.PUT("/:id", documentH.Update)
	documents.DELETE("/:id", documentH.Delete)

	return r
}
