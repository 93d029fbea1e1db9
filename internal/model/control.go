package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ControlType string

const (
	ControlTypeText    ControlType = "text"
	ControlTypeNumber  ControlType = "number"
	ControlTypeCounter ControlType = "counter"
	ControlTypeTimer   ControlType = "timer"
)

func (t ControlType) Valid() bool {
	switch t {
	case ControlTypeText, ControlTypeNumber, ControlTypeCounter, ControlTypeTimer:
		return true
	}
	return false
}

// Numeric reports whether values of this type must parse as decimals.
func (t ControlType) Numeric() bool {
	return t == ControlTypeNumber || t == ControlTypeCounter || t == ControlTypeTimer
}

type ControlConfig struct {
	Step *decimal.Decimal `json:"step,omitempty"`
}

// StepOrDefault returns the configured counter step, or 1.
func (c ControlConfig) StepOrDefault() decimal.Decimal {
	if c.Step == nil {
		return decimal.NewFromInt(1)
	}
	return *c.Step
}

type Control struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	TemplateID    *int64        `json:"template_id,omitempty"`
	TemplateSlug  *string       `json:"template_slug,omitempty"`
	Key           string        `json:"key"`
	Label         string        `json:"label"`
	Type          ControlType   `json:"type"`
	Value         string        `json:"value"`
	Config        ControlConfig `json:"config"`
	Source        *string       `json:"source,omitempty"`
	SourceManaged bool          `json:"source_managed"`
	SortOrder     int32         `json:"sort_order"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// BroadcastKey namespaces source-managed controls as "<source>:<key>".
func (c Control) BroadcastKey() string {
	if c.SourceManaged && c.Source != nil {
		return *c.Source + ":" + c.Key
	}
	return c.Key
}
