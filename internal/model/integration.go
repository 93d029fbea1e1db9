package model

import (
	"encoding/json"
	"slices"
	"time"
)

type Integration struct {
	ID             int64               `json:"id"`
	UserID         int64               `json:"user_id"`
	Service        string              `json:"service"`
	WebhookToken   string              `json:"-"` // routable secret, exposed only as a full webhook URL
	Credentials    []byte              `json:"-"` // sealed blob
	Settings       IntegrationSettings `json:"settings"`
	IsEnabled      bool                `json:"is_enabled"`
	TestMode       bool                `json:"test_mode"`
	LastReceivedAt *time.Time          `json:"last_received_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// IntegrationSettings is the free-form settings document. Unknown keys are
// preserved across round trips.
type IntegrationSettings struct {
	DisabledEvents []string                   `json:"disabled_events,omitempty"`
	Extra          map[string]json.RawMessage `json:"-"`
}

func (s IntegrationSettings) EventDisabled(eventType string) bool {
	return slices.Contains(s.DisabledEvents, eventType)
}

func (s IntegrationSettings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+1)
	for k, v := range s.Extra {
		out[k] = v
	}
	if len(s.DisabledEvents) > 0 {
		out["disabled_events"] = s.DisabledEvents
	}
	return json.Marshal(out)
}

func (s *IntegrationSettings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = IntegrationSettings{}
	if v, ok := raw["disabled_events"]; ok {
		if err := json.Unmarshal(v, &s.DisabledEvents); err != nil {
			return err
		}
		delete(raw, "disabled_events")
	}
	if len(raw) > 0 {
		s.Extra = raw
	}
	return nil
}
