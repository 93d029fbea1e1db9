package dto

import (
	"encoding/json"
	"time"

	"liveoverlay.app/hooks/internal/model"
)

type ConnectIntegrationRequest struct {
	Credentials map[string]string          `json:"credentials" binding:"required"`
	Settings    *model.IntegrationSettings `json:"settings,omitempty"`
	TestMode    bool                       `json:"test_mode"`
}

type UpdateIntegrationRequest struct {
	Credentials map[string]string          `json:"credentials,omitempty"`
	Settings    *model.IntegrationSettings `json:"settings,omitempty"`
	IsEnabled   *bool                      `json:"is_enabled,omitempty"`
	TestMode    *bool                      `json:"test_mode,omitempty"`
}

type IntegrationResponse struct {
	ID             int64                     `json:"id,string"`
	Service        string                    `json:"service"`
	DisplayName    string                    `json:"display_name"`
	WebhookURL     string                    `json:"webhook_url"`
	Settings       model.IntegrationSettings `json:"settings"`
	EventTypes     []string                  `json:"event_types"`
	IsEnabled      bool                      `json:"is_enabled"`
	TestMode       bool                      `json:"test_mode"`
	LastReceivedAt *time.Time                `json:"last_received_at,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

type DisconnectResponse struct {
	ControlsRemoved int64 `json:"controls_removed"`
}

// ServiceResponse describes a connectable service for the settings page.
type ServiceResponse struct {
	Service     string   `json:"service"`
	DisplayName string   `json:"display_name"`
	EventTypes  []string `json:"event_types"`
	Connected   bool     `json:"connected"`
}

type ExternalEventResponse struct {
	ID              int64             `json:"id,string"`
	EventType       string            `json:"event_type"`
	MessageID       string            `json:"message_id"`
	Normalized      map[string]string `json:"normalized"`
	Payload         json.RawMessage   `json:"payload"`
	TestMode        bool              `json:"test_mode"`
	ControlsUpdated bool              `json:"controls_updated"`
	AlertDispatched bool              `json:"alert_dispatched"`
	CreatedAt       time.Time         `json:"created_at"`
}

func ToExternalEventResponse(e model.ExternalEvent) ExternalEventResponse {
	return ExternalEventResponse{
		ID:              e.ID,
		EventType:       e.EventType,
		MessageID:       e.MessageID,
		Normalized:      e.Normalized,
		Payload:         e.Payload,
		TestMode:        e.TestMode,
		ControlsUpdated: e.ControlsUpdated,
		AlertDispatched: e.AlertDispatched,
		CreatedAt:       e.CreatedAt,
	}
}
