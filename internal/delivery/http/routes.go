package http

import (
	"github.com/gin-gonic/gin"
	"github.com/setupscatalog/linkengine/config"
	"github.com/sirupsen/logrus"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger logrus.FieldLogger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(RecoveryMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.POST("/extract", handler.ExtractProduct)
			products.POST("/extract/batch", handler.ExtractBatch)
		}

		affiliate := v1.Group("/affiliate")
		{
			affiliate.POST("/transform", handler.TransformAffiliateURL)
			affiliate.GET("/redirect", handler.RedirectAffiliate)
			affiliate.POST("/cache/invalidate", handler.InvalidateAffiliateCache)
		}
	}

	return router
}
