// Package driver defines the per-service webhook adapter contract and the
// registry that maps service keys to adapters.
package driver

import (
	"net/http"

	"liveoverlay.app/hooks/internal/model"
)

// Request is the inbound webhook as seen by a driver. Body is the raw bytes
// read off the wire; drivers that sign the body verify against it exactly.
type Request struct {
	Header      http.Header
	Body        []byte
	ContentType string
}

// Payload is the structurally decoded body.
type Payload map[string]any

// Integration carries what a driver may use to authenticate a request.
// Credentials are already decrypted.
type Integration struct {
	ID          int64
	UserID      int64
	Credentials map[string]string
	Settings    model.IntegrationSettings
	TestMode    bool
}

// ControlDefinition declares one control a driver provisions on connect.
type ControlDefinition struct {
	Key          string
	Label        string
	Type         model.ControlType
	InitialValue string
}

type Driver interface {
	ServiceKey() string
	DisplayName() string

	// VerifyRequest reports whether req was sent by the service for this
	// integration. It never panics on malformed input.
	VerifyRequest(req *Request, integration Integration) bool

	// DecodePayload turns the raw body into a Payload using the service's
	// content-type conventions.
	DecodePayload(req *Request) (Payload, error)

	// ParseEventType classifies the payload. Unrecognized shapes return false.
	ParseEventType(payload Payload) (string, bool)

	// NormalizeEvent always yields a non-empty MessageID and string-only tags.
	NormalizeEvent(payload Payload, eventType string) NormalizedEvent

	SupportedEventTypes() []string
	AutoProvisionedControls() []ControlDefinition

	// ControlUpdates maps control keys to the mutation this event applies.
	// An empty map is a valid no-op.
	ControlUpdates(event NormalizedEvent) map[string]UpdateInstruction

	// Credentials returns a pointer to the zero credential form, used to
	// derive the credential JSON schema.
	Credentials() any
}
