package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"liveoverlay.app/hooks/internal/http/dto"
	"liveoverlay.app/hooks/internal/http/middleware"
	"liveoverlay.app/hooks/internal/service"
)

type ControlHandler struct {
	controls service.ControlService
}

func NewControlHandler(controls service.ControlService) *ControlHandler {
	return &ControlHandler{controls: controls}
}

func (h *ControlHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	controls, err := h.controls.List(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list controls", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list controls"})
		return
	}

	resp := make([]dto.ControlResponse, 0, len(controls))
	for i := range controls {
		resp = append(resp, dto.ToControlResponse(&controls[i]))
	}
	c.JSON(http.StatusOK, gin.H{"controls": resp})
}

func (h *ControlHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	var req dto.CreateControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	control, err := h.controls.Create(ctx, service.CreateControlParams{
		UserID:     user.ID,
		TemplateID: req.TemplateID,
		Key:        req.Key,
		Label:      req.Label,
		Type:       req.Type,
		Value:      req.Value,
		Config:     req.Config,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		writeControlError(c, err, "failed to create control")
		return
	}
	c.JSON(http.StatusCreated, dto.ToControlResponse(control))
}

func (h *ControlHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	controlID, ok := parseControlID(c)
	if !ok {
		return
	}

	var req dto.UpdateControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	control, err := h.controls.UpdateMetadata(ctx, user.ID, controlID, service.UpdateControlMetadataParams{
		Label:     req.Label,
		Config:    req.Config,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		writeControlError(c, err, "failed to update control")
		return
	}
	c.JSON(http.StatusOK, dto.ToControlResponse(control))
}

func (h *ControlHandler) SetValue(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	controlID, ok := parseControlID(c)
	if !ok {
		return
	}

	var req dto.SetControlValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	control, err := h.controls.SetValue(ctx, user, controlID, *req.Value)
	if err != nil {
		writeControlError(c, err, "failed to set control value")
		return
	}
	c.JSON(http.StatusOK, dto.ToControlResponse(control))
}

func (h *ControlHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	controlID, ok := parseControlID(c)
	if !ok {
		return
	}

	if err := h.controls.Delete(ctx, user.ID, controlID); err != nil {
		writeControlError(c, err, "failed to delete control")
		return
	}
	c.Status(http.StatusNoContent)
}

func parseControlID(c *gin.Context) (int64, bool) {
	controlID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid control id"})
		return 0, false
	}
	return controlID, true
}

func writeControlError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrControlNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "control not found"})
	case errors.Is(err, service.ErrControlSourceManaged):
		c.JSON(http.StatusForbidden, gin.H{"error": "control is managed by an integration"})
	case errors.Is(err, service.ErrControlKeyTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "control key already in use"})
	case errors.Is(err, service.ErrInvalidControl), errors.Is(err, service.ErrInvalidControlValue):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
