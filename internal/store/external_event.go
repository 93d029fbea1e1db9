package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"liveoverlay.app/hooks/core/db/sqlc"
	"liveoverlay.app/hooks/internal/model"
)

type externalEventStore struct {
	queries *sqlc.Queries
}

func newExternalEventStore(queries *sqlc.Queries) ExternalEventStore {
	return &externalEventStore{queries: queries}
}

func (s *externalEventStore) Insert(ctx context.Context, event *model.ExternalEvent) (*model.ExternalEvent, error) {
	normalized, err := json.Marshal(event.Normalized)
	if err != nil {
		return nil, fmt.Errorf("encoding normalized tags: %w", err)
	}
	row, err := s.queries.InsertExternalEvent(ctx, sqlc.InsertExternalEventParams{
		ID:            event.ID,
		UserID:        event.UserID,
		IntegrationID: event.IntegrationID,
		Service:       event.Service,
		EventType:     event.EventType,
		MessageID:     event.MessageID,
		DedupeKey:     event.DedupeKey,
		Payload:       []byte(event.Payload),
		Normalized:    normalized,
		TestMode:      event.TestMode,
	})
	if err != nil {
		// ON CONFLICT (dedupe_key) DO NOTHING yields no row for the loser.
		mapped := mapError(err)
		if mapped == ErrNotFound {
			return nil, ErrDuplicate
		}
		return nil, mapped
	}
	return toExternalEventModel(row)
}

func (s *externalEventStore) MarkControlsUpdated(ctx context.Context, id int64) error {
	return s.queries.MarkExternalEventControlsUpdated(ctx, id)
}

func (s *externalEventStore) MarkAlertDispatched(ctx context.Context, id int64) error {
	return s.queries.MarkExternalEventAlertDispatched(ctx, id)
}

func (s *externalEventStore) ListByUserService(ctx context.Context, userID int64, service string, limit int32) ([]model.ExternalEvent, error) {
	rows, err := s.queries.ListExternalEventsByUserService(ctx, sqlc.ListExternalEventsByUserServiceParams{
		UserID:  userID,
		Service: service,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.ExternalEvent, 0, len(rows))
	for _, row := range rows {
		e, err := toExternalEventModel(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, nil
}

func (s *externalEventStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	return s.queries.DeleteExternalEventsBefore(ctx, toTimestamptz(before))
}

func toExternalEventModel(row sqlc.ExternalEvent) (*model.ExternalEvent, error) {
	var normalized map[string]string
	if len(row.Normalized) > 0 {
		if err := json.Unmarshal(row.Normalized, &normalized); err != nil {
			return nil, fmt.Errorf("decoding normalized tags for event %d: %w", row.ID, err)
		}
	}
	return &model.ExternalEvent{
		ID:              row.ID,
		UserID:          row.UserID,
		IntegrationID:   row.IntegrationID,
		Service:         row.Service,
		EventType:       row.EventType,
		MessageID:       row.MessageID,
		DedupeKey:       row.DedupeKey,
		Payload:         json.RawMessage(row.Payload),
		Normalized:      normalized,
		TestMode:        row.TestMode,
		ControlsUpdated: row.ControlsUpdated,
		AlertDispatched: row.AlertDispatched,
		CreatedAt:       row.CreatedAt.Time,
	}, nil
}
