package router

import (
	"github.com/gin-gonic/gin"

	"liveoverlay.app/hooks/internal/http/handler/webhook"
)

func WebhookRouter(rg *gin.RouterGroup, h *webhook.Handler) {
	rg.POST("/:service/:token", h.HandleEvent)
}
