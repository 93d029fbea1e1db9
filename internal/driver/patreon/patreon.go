// Package patreon adapts Patreon member webhooks. Deliveries are JSON:API
// documents signed with HMAC-MD5 of the raw body using the webhook secret.
package patreon

import (
	"bytes"
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // Patreon signs with HMAC-MD5
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/shopspring/decimal"

	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/model"
)

const ServiceKey = "patreon"

const (
	HeaderSignature = "X-Patreon-Signature"
	HeaderEvent     = "X-Patreon-Event"
)

const (
	EventPledgeCreate = "pledge_create"
	EventPledgeUpdate = "pledge_update"
	EventPledgeDelete = "pledge_delete"
)

const (
	ControlActivePatrons      = "active_patrons"
	ControlLatestPatronName   = "latest_patron_name"
	ControlLatestPledgeAmount = "latest_pledge_amount"
)

// triggerKey holds the X-Patreon-Event header inside the decoded payload so
// classification stays a function of the payload alone.
const triggerKey = "patreon_trigger"

var triggers = map[string]string{
	"members:pledge:create": EventPledgeCreate,
	"members:pledge:update": EventPledgeUpdate,
	"members:pledge:delete": EventPledgeDelete,
}

var ErrEmptyBody = errors.New("patreon: empty body")

type Credentials struct {
	WebhookSecret string `json:"webhook_secret" jsonschema:"required,title=Webhook secret,description=Secret shown next to the webhook on the Patreon portal"`
}

type Driver struct{}

func New() *Driver {
	return &Driver{}
}

func (d *Driver) ServiceKey() string  { return ServiceKey }
func (d *Driver) DisplayName() string { return "Patreon" }
func (d *Driver) Credentials() any    { return &Credentials{} }

func (d *Driver) SupportedEventTypes() []string {
	return []string{EventPledgeCreate, EventPledgeUpdate, EventPledgeDelete}
}

func (d *Driver) AutoProvisionedControls() []driver.ControlDefinition {
	return []driver.ControlDefinition{
		{Key: ControlActivePatrons, Label: "Active Patrons", Type: model.ControlTypeCounter, InitialValue: "0"},
		{Key: ControlLatestPatronName, Label: "Latest Patron", Type: model.ControlTypeText},
		{Key: ControlLatestPledgeAmount, Label: "Latest Pledge Amount", Type: model.ControlTypeNumber, InitialValue: "0"},
	}
}

func (d *Driver) DecodePayload(req *driver.Request) (driver.Payload, error) {
	if len(bytes.TrimSpace(req.Body)) == 0 {
		return nil, ErrEmptyBody
	}
	dec := json.NewDecoder(bytes.NewReader(req.Body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("patreon: decoding body: %w", err)
	}
	if payload == nil {
		return nil, ErrEmptyBody
	}
	payload[triggerKey] = strings.TrimSpace(req.Header.Get(HeaderEvent))
	return driver.Payload(payload), nil
}

func (d *Driver) VerifyRequest(req *driver.Request, integration driver.Integration) bool {
	secret := integration.Credentials["webhook_secret"]
	if secret == "" {
		return false
	}
	signature, err := hex.DecodeString(strings.TrimSpace(req.Header.Get(HeaderSignature)))
	if err != nil || len(signature) == 0 {
		return false
	}
	mac := hmac.New(md5.New, []byte(secret))
	mac.Write(req.Body)
	return hmac.Equal(mac.Sum(nil), signature)
}

func (d *Driver) ParseEventType(payload driver.Payload) (string, bool) {
	trigger, ok := payload[triggerKey].(string)
	if !ok {
		return "", false
	}
	eventType, ok := triggers[trigger]
	return eventType, ok
}

func (d *Driver) NormalizeEvent(payload driver.Payload, eventType string) driver.NormalizedEvent {
	event := driver.NormalizedEvent{
		Service:   ServiceKey,
		EventType: eventType,
		MessageID: messageID(payload),
		Raw:       payload,
	}

	attrs := payload.Object("data").Object("attributes")

	name := strings.TrimSpace(attrs.String("full_name"))
	if name != "" {
		event.ActorName = &name
	}

	var amountText string
	if cents, err := decimal.NewFromString(attrs.String("currently_entitled_amount_cents")); err == nil {
		amount := cents.Shift(-2)
		event.Amount = &amount
		amountText = amount.StringFixed(2)
	}

	note := strings.TrimSpace(attrs.String("note"))
	if note != "" {
		event.Message = &note
	}

	event.Tags = map[string]string{
		"event_type":    eventType,
		"from_name":     name,
		"amount":        amountText,
		"message":       note,
		"patron_status": attrs.String("patron_status"),
	}
	return event
}

func (d *Driver) ControlUpdates(event driver.NormalizedEvent) map[string]driver.UpdateInstruction {
	updates := map[string]driver.UpdateInstruction{}

	switch event.EventType {
	case EventPledgeCreate:
		updates[ControlActivePatrons] = driver.Increment()
		if event.ActorName != nil {
			updates[ControlLatestPatronName] = driver.Set(*event.ActorName)
		}
		if event.Amount != nil {
			updates[ControlLatestPledgeAmount] = driver.Set(event.Amount.String())
		}
	case EventPledgeUpdate:
		if event.Amount != nil {
			updates[ControlLatestPledgeAmount] = driver.Set(event.Amount.String())
		}
	case EventPledgeDelete:
		updates[ControlActivePatrons] = driver.Add(decimal.NewFromInt(-1))
	}

	return updates
}

// messageID digests the trigger and the canonical body. Patreon sends no
// delivery id, so identical redeliveries collapse onto one key.
func messageID(payload driver.Payload) string {
	body := maps.Clone(map[string]any(payload))
	trigger, _ := body[triggerKey].(string)
	delete(body, triggerKey)

	canonical, err := json.Marshal(body)
	if err != nil {
		canonical = []byte(fmt.Sprint(body))
	}

	h := sha256.New()
	h.Write([]byte(trigger))
	h.Write([]byte{0})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil))
}
