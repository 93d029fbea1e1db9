package dto

import (
	"time"

	"liveoverlay.app/hooks/internal/model"
)

type CreateControlRequest struct {
	TemplateID *int64              `json:"template_id,string,omitempty"`
	Key        string              `json:"key" binding:"required,max=64"`
	Label      string              `json:"label" binding:"max=255"`
	Type       model.ControlType   `json:"type" binding:"required"`
	Value      string              `json:"value"`
	Config     model.ControlConfig `json:"config"`
	SortOrder  int32               `json:"sort_order"`
}

type UpdateControlRequest struct {
	Label     *string              `json:"label,omitempty" binding:"omitempty,max=255"`
	Config    *model.ControlConfig `json:"config,omitempty"`
	SortOrder *int32               `json:"sort_order,omitempty"`
}

type SetControlValueRequest struct {
	Value *string `json:"value" binding:"required"`
}

type ControlResponse struct {
	ID            int64               `json:"id,string"`
	TemplateID    *int64              `json:"template_id,string,omitempty"`
	Key           string              `json:"key"`
	BroadcastKey  string              `json:"broadcast_key"`
	Label         string              `json:"label"`
	Type          model.ControlType   `json:"type"`
	Value         string              `json:"value"`
	Config        model.ControlConfig `json:"config"`
	Source        *string             `json:"source,omitempty"`
	SourceManaged bool                `json:"source_managed"`
	SortOrder     int32               `json:"sort_order"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func ToControlResponse(c *model.Control) ControlResponse {
	return ControlResponse{
		ID:            c.ID,
		TemplateID:    c.TemplateID,
		Key:           c.Key,
		BroadcastKey:  c.BroadcastKey(),
		Label:         c.Label,
		Type:          c.Type,
		Value:         c.Value,
		Config:        c.Config,
		Source:        c.Source,
		SourceManaged: c.SourceManaged,
		SortOrder:     c.SortOrder,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
