package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"liveoverlay.app/hooks/internal/http/handler"
	"liveoverlay.app/hooks/internal/http/handler/webhook"
	"liveoverlay.app/hooks/internal/http/middleware"
	"liveoverlay.app/hooks/internal/service"
)

type RouterConfig struct {
	MaxBodyBytes int64
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	webhookHandler := webhook.NewHandler(services.Registry(), services.Integrations(), services.EventIngest(), cfg.MaxBodyBytes)
	WebhookRouter(router.Group("/webhooks"), webhookHandler)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAuth(services.Auth()))
	{
		integrationHandler := handler.NewIntegrationHandler(services.Integrations(), services.Registry())
		IntegrationRouter(v1.Group("/integrations"), integrationHandler)

		controlHandler := handler.NewControlHandler(services.Controls())
		ControlRouter(v1.Group("/controls"), controlHandler)
	}
}
