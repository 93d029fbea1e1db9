package model

import (
	"encoding/json"
	"time"
)

type ExternalEvent struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	IntegrationID   *int64            `json:"integration_id,omitempty"`
	Service         string            `json:"service"`
	EventType       string            `json:"event_type"`
	MessageID       string            `json:"message_id"`
	DedupeKey       string            `json:"dedupe_key"`
	Payload         json.RawMessage   `json:"payload"`
	Normalized      map[string]string `json:"normalized"`
	TestMode        bool              `json:"test_mode"`
	ControlsUpdated bool              `json:"controls_updated"`
	AlertDispatched bool              `json:"alert_dispatched"`
	CreatedAt       time.Time         `json:"created_at"`
}
