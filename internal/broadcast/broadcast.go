// Package broadcast publishes overlay notifications (control value changes,
// alert triggers) to the fan-out transport that feeds connected overlays.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Event string

const (
	EventControlUpdated Event = "control.updated"
	EventAlertTriggered Event = "alert.triggered"
)

// Message is addressed to one user's public channel.
type Message struct {
	Channel string
	Event   Event
	Payload any
}

// ControlUpdated carries a new control value. An empty TemplateSlug targets
// every overlay on the channel.
type ControlUpdated struct {
	TemplateSlug string `json:"template_slug"`
	Key          string `json:"key"`
	Type         string `json:"type"`
	Value        string `json:"value"`
}

type AlertTemplate struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

type AlertTriggered struct {
	Service       string            `json:"service"`
	EventType     string            `json:"event_type"`
	EventID       int64             `json:"event_id,string"`
	TemplateSlug  string            `json:"template_slug"`
	Template      AlertTemplate     `json:"template"`
	Tags          map[string]string `json:"tags"`
	DurationMS    int32             `json:"duration_ms"`
	TransitionIn  string            `json:"transition_in"`
	TransitionOut string            `json:"transition_out"`
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// envelope is the wire form shared by every transport.
type envelope struct {
	Channel  string          `json:"channel"`
	Event    Event           `json:"event"`
	Payload  json.RawMessage `json:"payload"`
	SentAtMS int64           `json:"sent_at_ms"`
}

func encode(msg Message, now time.Time) ([]byte, error) {
	if msg.Channel == "" {
		return nil, fmt.Errorf("broadcast: empty channel")
	}
	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		return nil, fmt.Errorf("broadcast: encoding payload: %w", err)
	}
	return json.Marshal(envelope{
		Channel:  msg.Channel,
		Event:    msg.Event,
		Payload:  payload,
		SentAtMS: now.UnixMilli(),
	})
}
