package driver

import (
	"maps"

	"github.com/shopspring/decimal"
)

// NormalizedEvent is the service-agnostic view of one inbound event. Treat it
// as immutable once returned from a driver.
type NormalizedEvent struct {
	Service   string
	EventType string
	MessageID string
	ActorName *string
	Message   *string
	Amount    *decimal.Decimal
	Currency  *string
	Tags      map[string]string
	Raw       Payload
}

// TagValues returns a copy of the alert template tags.
func (e NormalizedEvent) TagValues() map[string]string {
	if e.Tags == nil {
		return map[string]string{}
	}
	return maps.Clone(e.Tags)
}
