package model

import "time"

type OverlayTemplate struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	HTML      string    `json:"html"`
	CSS       string    `json:"css"`
	JS        string    `json:"js"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EventTemplateMapping struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Service       string    `json:"service"`
	EventType     string    `json:"event_type"`
	TemplateID    int64     `json:"template_id"`
	DurationMS    int32     `json:"duration_ms"`
	TransitionIn  string    `json:"transition_in"`
	TransitionOut string    `json:"transition_out"`
	IsEnabled     bool      `json:"is_enabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AlertMapping is an enabled mapping joined with its template.
type AlertMapping struct {
	Mapping  EventTemplateMapping
	Template OverlayTemplate
}
