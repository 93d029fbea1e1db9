// Package kofi adapts Ko-fi webhooks. Ko-fi posts a form body whose "data"
// field holds the JSON event, authenticated by a shared verification token
// embedded in that JSON.
package kofi

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/model"
)

const ServiceKey = "kofi"

const (
	EventDonation     = "donation"
	EventSubscription = "subscription"
	EventCommission   = "commission"
	EventShopOrder    = "shop_order"
)

const (
	ControlKofisReceived         = "kofis_received"
	ControlTotalReceived         = "total_received"
	ControlLatestDonorName       = "latest_donor_name"
	ControlLatestDonationMessage = "latest_donation_message"
	ControlLatestSubscriberName  = "latest_subscriber_name"
)

var kofiTypes = map[string]string{
	"donation":     EventDonation,
	"subscription": EventSubscription,
	"commission":   EventCommission,
	"shop order":   EventShopOrder,
}

var ErrMissingData = errors.New("kofi: missing data field")

type Credentials struct {
	VerificationToken string `json:"verification_token" jsonschema:"required,title=Verification token,description=Shown on the Ko-fi webhooks settings page"`
}

type Driver struct {
	newID func() string
}

func New() *Driver {
	return &Driver{newID: uuid.NewString}
}

func (d *Driver) ServiceKey() string  { return ServiceKey }
func (d *Driver) DisplayName() string { return "Ko-fi" }
func (d *Driver) Credentials() any    { return &Credentials{} }

func (d *Driver) SupportedEventTypes() []string {
	return []string{EventDonation, EventSubscription, EventCommission, EventShopOrder}
}

func (d *Driver) AutoProvisionedControls() []driver.ControlDefinition {
	return []driver.ControlDefinition{
		{Key: ControlKofisReceived, Label: "Ko-fis Received", Type: model.ControlTypeCounter, InitialValue: "0"},
		{Key: ControlTotalReceived, Label: "Total Received", Type: model.ControlTypeNumber, InitialValue: "0"},
		{Key: ControlLatestDonorName, Label: "Latest Donor", Type: model.ControlTypeText},
		{Key: ControlLatestDonationMessage, Label: "Latest Donation Message", Type: model.ControlTypeText},
		{Key: ControlLatestSubscriberName, Label: "Latest Subscriber", Type: model.ControlTypeText},
	}
}

func (d *Driver) DecodePayload(req *driver.Request) (driver.Payload, error) {
	raw := req.Body
	if isForm(req.ContentType) {
		values, err := url.ParseQuery(string(req.Body))
		if err != nil {
			return nil, fmt.Errorf("kofi: parsing form body: %w", err)
		}
		data := values.Get("data")
		if data == "" {
			return nil, ErrMissingData
		}
		raw = []byte(data)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("kofi: decoding data: %w", err)
	}
	if payload == nil {
		return nil, ErrMissingData
	}
	return driver.Payload(payload), nil
}

func (d *Driver) VerifyRequest(req *driver.Request, integration driver.Integration) bool {
	expected := integration.Credentials["verification_token"]
	if expected == "" {
		return false
	}
	payload, err := d.DecodePayload(req)
	if err != nil {
		return false
	}
	got, ok := payload["verification_token"].(string)
	if !ok || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}

func (d *Driver) ParseEventType(payload driver.Payload) (string, bool) {
	t, ok := payload["type"].(string)
	if !ok {
		return "", false
	}
	eventType, ok := kofiTypes[strings.ToLower(strings.TrimSpace(t))]
	return eventType, ok
}

func (d *Driver) NormalizeEvent(payload driver.Payload, eventType string) driver.NormalizedEvent {
	event := driver.NormalizedEvent{
		Service:   ServiceKey,
		EventType: eventType,
		MessageID: d.messageID(payload),
		Raw:       withoutToken(payload),
	}

	name := strings.TrimSpace(payload.String("from_name"))
	if name != "" {
		event.ActorName = &name
	}

	public, known := payload.Bool("is_public")
	message := strings.TrimSpace(payload.String("message"))
	if known && !public {
		message = ""
	}
	if message != "" {
		event.Message = &message
	}

	amountRaw := strings.TrimSpace(payload.String("amount"))
	if amount, err := decimal.NewFromString(amountRaw); err == nil {
		event.Amount = &amount
	}

	currency := strings.TrimSpace(payload.String("currency"))
	if currency != "" {
		event.Currency = &currency
	}

	event.Tags = map[string]string{
		"event_type": eventType,
		"from_name":  name,
		"message":    message,
		"amount":     amountRaw,
		"currency":   currency,
		"tier_name":  payload.String("tier_name"),
		"url":        payload.String("url"),
	}
	return event
}

func (d *Driver) ControlUpdates(event driver.NormalizedEvent) map[string]driver.UpdateInstruction {
	updates := map[string]driver.UpdateInstruction{}

	switch event.EventType {
	case EventDonation:
		updates[ControlKofisReceived] = driver.Increment()
		// A donation without an amount still counts.
		if event.Amount != nil {
			updates[ControlTotalReceived] = driver.Add(*event.Amount)
		}
		if event.ActorName != nil {
			updates[ControlLatestDonorName] = driver.Set(*event.ActorName)
		}
		if event.Message != nil {
			updates[ControlLatestDonationMessage] = driver.Set(*event.Message)
		}
	case EventSubscription:
		if event.Amount != nil {
			updates[ControlTotalReceived] = driver.Add(*event.Amount)
		}
		if event.ActorName != nil {
			updates[ControlLatestSubscriberName] = driver.Set(*event.ActorName)
		}
	}

	return updates
}

func (d *Driver) messageID(payload driver.Payload) string {
	for _, key := range []string{"kofi_transaction_id", "message_id"} {
		if v := strings.TrimSpace(payload.String(key)); v != "" {
			return v
		}
	}
	return d.newID()
}

func isForm(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded"
}

// withoutToken copies payload minus the verification token, which is the
// integration's sealed credential and must not be stored with the event.
func withoutToken(payload driver.Payload) driver.Payload {
	out := make(driver.Payload, len(payload))
	for k, v := range payload {
		if k == "verification_token" {
			continue
		}
		out[k] = v
	}
	return out
}
