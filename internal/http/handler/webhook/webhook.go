package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"liveoverlay.app/hooks/common/logger"
	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/model"
	"liveoverlay.app/hooks/internal/service"
)

// IntegrationResolver is the slice of service.IntegrationService the
// endpoint needs.
type IntegrationResolver interface {
	FindForWebhook(ctx context.Context, service, webhookToken string) (*model.Integration, error)
	Credentials(integration *model.Integration) (map[string]string, error)
}

type Handler struct {
	registry     *driver.Registry
	integrations IntegrationResolver
	eventIngest  service.EventIngestService
	maxBodyBytes int64
}

func NewHandler(registry *driver.Registry, integrations IntegrationResolver, eventIngest service.EventIngestService, maxBodyBytes int64) *Handler {
	return &Handler{
		registry:     registry,
		integrations: integrations,
		eventIngest:  eventIngest,
		maxBodyBytes: maxBodyBytes,
	}
}

// HandleEvent serves POST /webhooks/:service/:token. Every step either
// answers the request or hands off to the next.
func (h *Handler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()
	serviceKey := c.Param("service")

	if !h.registry.Has(serviceKey) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown service"})
		return
	}
	d, err := h.registry.Driver(serviceKey)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown service"})
		return
	}

	integration, err := h.integrations.FindForWebhook(ctx, serviceKey, c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrIntegrationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "integration not found"})
			return
		}
		slog.ErrorContext(ctx, "webhook integration lookup failed", "service", serviceKey, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:        &integration.UserID,
		IntegrationID: &integration.ID,
		Service:       &serviceKey,
		Component:     "hooks.http.webhook",
	})

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	req := &driver.Request{
		Header:      c.Request.Header,
		Body:        body,
		ContentType: c.ContentType(),
	}

	creds, err := h.integrations.Credentials(integration)
	if err != nil {
		slog.ErrorContext(ctx, "webhook credentials unreadable", "error", err)
		c.JSON(http.StatusForbidden, gin.H{"error": "verification failed"})
		return
	}
	verified := d.VerifyRequest(req, driver.Integration{
		ID:          integration.ID,
		UserID:      integration.UserID,
		Credentials: creds,
		Settings:    integration.Settings,
		TestMode:    integration.TestMode,
	})
	if !verified {
		slog.WarnContext(ctx, "webhook verification failed")
		c.JSON(http.StatusForbidden, gin.H{"error": "verification failed"})
		return
	}

	payload, err := d.DecodePayload(req)
	if err != nil {
		slog.WarnContext(ctx, "webhook payload rejected", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	eventType, ok := d.ParseEventType(payload)
	if !ok {
		slog.InfoContext(ctx, "webhook event type not supported, ignoring")
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "reason": "unsupported event type"})
		return
	}
	if integration.Settings.EventDisabled(eventType) {
		slog.InfoContext(ctx, "webhook event type disabled, ignoring", "event_type", eventType)
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "reason": "event type disabled"})
		return
	}

	event := d.NormalizeEvent(payload, eventType)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		EventType: &event.EventType,
		MessageID: &event.MessageID,
	})

	result, err := h.eventIngest.Ingest(ctx, service.EventIngestParams{
		Integration: integration,
		Driver:      d,
		Event:       event,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to ingest webhook event", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
		return
	}
	if result.Duplicated {
		c.JSON(http.StatusConflict, gin.H{"status": "duplicate"})
		return
	}

	slog.InfoContext(ctx, "webhook processed",
		"event_id", result.Event.ID,
		"controls_updated", result.ControlsUpdated,
		"alert_dispatched", result.AlertDispatched)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
