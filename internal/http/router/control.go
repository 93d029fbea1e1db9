package router

import (
	"github.com/gin-gonic/gin"

	"liveoverlay.app/hooks/internal/http/handler"
)

func ControlRouter(rg *gin.RouterGroup, h *handler.ControlHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.PATCH("/:id", h.Update)
	rg.PUT("/:id/value", h.SetValue)
	rg.DELETE("/:id", h.Delete)
}
