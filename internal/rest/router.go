package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/sendwell/sendwell/internal/api/v1"
	"github.com/sendwell/sendwell/internal/config"
	"github.com/sendwell/sendwell/internal/logger"
	"github.com/sendwell/sendwell/internal/rest/middleware"
	"github.com/sendwell/sendwell/internal/types"
)

// Handlers groups the versioned API handlers mounted by the router
type Handlers struct {
	Agreement *v1.AgreementHandler
}

// NewRouter builds the gin engine with the standard middleware chain
func NewRouter(cfg *config.Configuration, log *logger.Logger, handlers Handlers) *gin.Engine {
	if cfg.Deployment.Mode != types.RunModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.SentryMiddleware(cfg))
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.ErrorHandler)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/v1")
	{
		accounts := apiV1.Group("/accounts")
		accounts.POST("/:id/agreements", handlers.Agreement.CreateAgreement)
	}

	return router
}
