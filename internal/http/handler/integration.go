package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/http/dto"
	"liveoverlay.app/hooks/internal/http/middleware"
	"liveoverlay.app/hooks/internal/model"
	"liveoverlay.app/hooks/internal/service"
)

type IntegrationHandler struct {
	integrations service.IntegrationService
	registry     *driver.Registry
}

func NewIntegrationHandler(integrations service.IntegrationService, registry *driver.Registry) *IntegrationHandler {
	return &IntegrationHandler{
		integrations: integrations,
		registry:     registry,
	}
}

func (h *IntegrationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	integrations, err := h.integrations.List(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list integrations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list integrations"})
		return
	}

	connected := make(map[string]bool, len(integrations))
	resp := make([]dto.IntegrationResponse, 0, len(integrations))
	for i := range integrations {
		connected[integrations[i].Service] = true
		if r, ok := h.toResponse(&integrations[i]); ok {
			resp = append(resp, r)
		}
	}

	services := make([]dto.ServiceResponse, 0, len(h.registry.Services()))
	for _, key := range h.registry.Services() {
		d, err := h.registry.Driver(key)
		if err != nil {
			continue
		}
		services = append(services, dto.ServiceResponse{
			Service:     key,
			DisplayName: d.DisplayName(),
			EventTypes:  d.SupportedEventTypes(),
			Connected:   connected[key],
		})
	}

	c.JSON(http.StatusOK, gin.H{"services": services, "integrations": resp})
}

func (h *IntegrationHandler) Schema(c *gin.Context) {
	d, err := h.registry.Driver(c.Param("service"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown service"})
		return
	}
	c.JSON(http.StatusOK, driver.CredentialSchema(d))
}

func (h *IntegrationHandler) Connect(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	var req dto.ConnectIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := service.ConnectParams{
		UserID:      user.ID,
		Service:     c.Param("service"),
		Credentials: req.Credentials,
		TestMode:    req.TestMode,
	}
	if req.Settings != nil {
		params.Settings = *req.Settings
	}

	integration, err := h.integrations.Connect(ctx, params)
	if err != nil {
		h.writeError(c, err, "failed to connect integration")
		return
	}
	h.respond(c, http.StatusCreated, integration)
}

func (h *IntegrationHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	var req dto.UpdateIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	integration, err := h.integrations.Update(ctx, service.UpdateIntegrationParams{
		UserID:      user.ID,
		Service:     c.Param("service"),
		Credentials: req.Credentials,
		Settings:    req.Settings,
		IsEnabled:   req.IsEnabled,
		TestMode:    req.TestMode,
	})
	if err != nil {
		h.writeError(c, err, "failed to update integration")
		return
	}
	h.respond(c, http.StatusOK, integration)
}

func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	removed, err := h.integrations.Disconnect(ctx, user.ID, c.Param("service"))
	if err != nil {
		h.writeError(c, err, "failed to disconnect integration")
		return
	}
	c.JSON(http.StatusOK, dto.DisconnectResponse{ControlsRemoved: removed})
}

func (h *IntegrationHandler) RotateToken(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	integration, err := h.integrations.RotateWebhookToken(ctx, user.ID, c.Param("service"))
	if err != nil {
		h.writeError(c, err, "failed to rotate webhook token")
		return
	}
	h.respond(c, http.StatusOK, integration)
}

func (h *IntegrationHandler) ListEvents(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	var limit int32
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = int32(n)
	}

	events, err := h.integrations.ListEvents(ctx, user.ID, c.Param("service"), limit)
	if err != nil {
		h.writeError(c, err, "failed to list events")
		return
	}

	resp := make([]dto.ExternalEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, dto.ToExternalEventResponse(e))
	}
	c.JSON(http.StatusOK, gin.H{"events": resp})
}

func (h *IntegrationHandler) respond(c *gin.Context, status int, integration *model.Integration) {
	resp, ok := h.toResponse(integration)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown service"})
		return
	}
	c.JSON(status, resp)
}

func (h *IntegrationHandler) toResponse(integration *model.Integration) (dto.IntegrationResponse, bool) {
	d, err := h.registry.Driver(integration.Service)
	if err != nil {
		return dto.IntegrationResponse{}, false
	}
	return dto.IntegrationResponse{
		ID:             integration.ID,
		Service:        integration.Service,
		DisplayName:    d.DisplayName(),
		WebhookURL:     h.integrations.WebhookURL(integration),
		Settings:       integration.Settings,
		EventTypes:     d.SupportedEventTypes(),
		IsEnabled:      integration.IsEnabled,
		TestMode:       integration.TestMode,
		LastReceivedAt: integration.LastReceivedAt,
		CreatedAt:      integration.CreatedAt,
		UpdatedAt:      integration.UpdatedAt,
	}, true
}

func (h *IntegrationHandler) writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, driver.ErrUnknownService):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown service"})
	case errors.Is(err, service.ErrIntegrationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "integration not found"})
	case errors.Is(err, service.ErrAlreadyConnected):
		c.JSON(http.StatusConflict, gin.H{"error": "service already connected"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
