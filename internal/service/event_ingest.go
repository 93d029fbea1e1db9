package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"liveoverlay.app/hooks/common/id"
	"liveoverlay.app/hooks/common/logger"
	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/model"
	"liveoverlay.app/hooks/internal/store"
)

type EventIngestParams struct {
	Integration *model.Integration
	Driver      driver.Driver
	Event       driver.NormalizedEvent
}

type EventIngestResult struct {
	Event           *model.ExternalEvent
	DedupeKey       string
	Duplicated      bool
	ControlsUpdated bool
	AlertDispatched bool
}

// EventIngestService stores a normalized event exactly once and runs its side
// effects. Side-effect failures are logged and reflected in the stored flags.
type EventIngestService interface {
	Ingest(ctx context.Context, params EventIngestParams) (*EventIngestResult, error)
}

type eventIngestService struct {
	users         store.UserStore
	integrations  store.IntegrationStore
	events        store.ExternalEventStore
	controlUpdate ControlUpdateService
	alerts        AlertDispatchService
	now           func() time.Time
	testSuffix    func() string
}

func NewEventIngestService(
	users store.UserStore,
	integrations store.IntegrationStore,
	events store.ExternalEventStore,
	controlUpdate ControlUpdateService,
	alerts AlertDispatchService,
) EventIngestService {
	return &eventIngestService{
		users:         users,
		integrations:  integrations,
		events:        events,
		controlUpdate: controlUpdate,
		alerts:        alerts,
		now:           time.Now,
		testSuffix:    uuid.NewString,
	}
}

func (s *eventIngestService) Ingest(ctx context.Context, params EventIngestParams) (*EventIngestResult, error) {
	integration, event := params.Integration, params.Event
	if integration == nil || params.Driver == nil {
		return nil, fmt.Errorf("integration and driver are required")
	}
	if event.MessageID == "" {
		return nil, fmt.Errorf("normalized event has no message id")
	}

	sp := logger.StartSpan(ctx, "ingest.event")
	defer sp.End()
	ctx = sp.Context()
	sp.SetAttributes(
		attribute.String("service", event.Service),
		attribute.String("event_type", event.EventType),
		attribute.Int64("integration_id", integration.ID),
	)

	dedupeKey := DedupeKey(event.Service, event.MessageID, integration.TestMode, s.testSuffix)

	payload, err := json.Marshal(event.Raw)
	if err != nil {
		sp.RecordError(err)
		return nil, fmt.Errorf("encoding raw payload: %w", err)
	}

	stored, err := s.events.Insert(ctx, &model.ExternalEvent{
		ID:            id.New(),
		UserID:        integration.UserID,
		IntegrationID: &integration.ID,
		Service:       event.Service,
		EventType:     event.EventType,
		MessageID:     event.MessageID,
		DedupeKey:     dedupeKey,
		Payload:       payload,
		Normalized:    event.TagValues(),
		TestMode:      integration.TestMode,
	})
	if errors.Is(err, store.ErrDuplicate) {
		slog.InfoContext(ctx, "duplicate event deduped", "dedupe_key", dedupeKey)
		return &EventIngestResult{DedupeKey: dedupeKey, Duplicated: true}, nil
	}
	if err != nil {
		sp.RecordError(err)
		return nil, fmt.Errorf("storing event: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{EventID: &stored.ID})
	result := &EventIngestResult{Event: stored, DedupeKey: dedupeKey}

	user, err := s.users.GetByID(ctx, integration.UserID)
	if err != nil {
		// The event is stored; without the owner there is nowhere to broadcast.
		slog.ErrorContext(ctx, "loading event owner failed, skipping side effects", "error", err)
		s.touch(ctx, integration.ID)
		return result, nil
	}

	if updates := params.Driver.ControlUpdates(event); len(updates) > 0 {
		result.ControlsUpdated = s.applyControls(ctx, user, event.Service, updates, stored.ID)
	}

	if s.alerts.Dispatch(ctx, event, stored.ID, user) {
		result.AlertDispatched = true
		if err := s.events.MarkAlertDispatched(ctx, stored.ID); err != nil {
			slog.WarnContext(ctx, "marking alert dispatched failed", "error", err)
		}
	}

	s.touch(ctx, integration.ID)

	stored.ControlsUpdated = result.ControlsUpdated
	stored.AlertDispatched = result.AlertDispatched

	slog.InfoContext(ctx, "event ingested",
		"controls_updated", result.ControlsUpdated,
		"alert_dispatched", result.AlertDispatched)
	return result, nil
}

func (s *eventIngestService) applyControls(ctx context.Context, user *model.User, service string, updates map[string]driver.UpdateInstruction, eventID int64) bool {
	sp := logger.StartSpan(ctx, "ingest.apply_controls")
	defer sp.End()
	ctx = sp.Context()

	changed, err := s.controlUpdate.ApplyUpdates(ctx, user, service, updates)
	if err != nil {
		sp.RecordError(err)
		slog.ErrorContext(ctx, "applying control updates failed", "error", err)
		return false
	}
	sp.SetAttributes(attribute.Int("controls_changed", changed))

	if err := s.events.MarkControlsUpdated(ctx, eventID); err != nil {
		slog.WarnContext(ctx, "marking controls updated failed", "error", err)
	}
	return true
}

func (s *eventIngestService) touch(ctx context.Context, integrationID int64) {
	if err := s.integrations.TouchLastReceived(ctx, integrationID, s.now()); err != nil {
		slog.WarnContext(ctx, "updating last received failed", "error", err)
	}
}

// DedupeKey is "<service>:<message id>". Test-mode deliveries get a fresh
// suffix so replaying a sample payload is never treated as a duplicate.
func DedupeKey(service, messageID string, testMode bool, suffix func() string) string {
	key := service + ":" + messageID
	if testMode {
		key += ":test:" + suffix()
	}
	return key
}
