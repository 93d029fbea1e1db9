package router

import (
	"github.com/gin-gonic/gin"

	"liveoverlay.app/hooks/internal/http/handler"
)

func IntegrationRouter(rg *gin.RouterGroup, h *handler.IntegrationHandler) {
	rg.GET("", h.List)
	rg.GET("/:service/schema", h.Schema)
	rg.GET("/:service/events", h.ListEvents)
	rg.POST("/:service", h.Connect)
	rg.PATCH("/:service", h.Update)
	rg.DELETE("/:service", h.Disconnect)
	rg.POST("/:service/rotate-token", h.RotateToken)
}
