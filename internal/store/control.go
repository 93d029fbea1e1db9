package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"liveoverlay.app/hooks/core/db/sqlc"
	"liveoverlay.app/hooks/internal/model"
)

type controlStore struct {
	queries *sqlc.Queries
}

func newControlStore(queries *sqlc.Queries) ControlStore {
	return &controlStore{queries: queries}
}

func (s *controlStore) CreateIfAbsent(ctx context.Context, control *model.Control) (*model.Control, error) {
	config, err := json.Marshal(control.Config)
	if err != nil {
		return nil, fmt.Errorf("encoding control config: %w", err)
	}
	row, err := s.queries.InsertControlIfAbsent(ctx, sqlc.InsertControlIfAbsentParams{
		ID:            control.ID,
		UserID:        control.UserID,
		TemplateID:    control.TemplateID,
		Key:           control.Key,
		Label:         control.Label,
		Type:          string(control.Type),
		Value:         control.Value,
		Config:        config,
		Source:        control.Source,
		SourceManaged: control.SourceManaged,
		SortOrder:     control.SortOrder,
	})
	if err != nil {
		// ON CONFLICT DO NOTHING returns no row.
		mapped := mapError(err)
		if errors.Is(mapped, ErrNotFound) {
			return nil, ErrDuplicate
		}
		return nil, mapped
	}
	return toControlModel(row, nil)
}

func (s *controlStore) GetByID(ctx context.Context, userID, id int64) (*model.Control, error) {
	row, err := s.queries.GetControl(ctx, sqlc.GetControlParams{ID: id, UserID: userID})
	if err != nil {
		return nil, mapError(err)
	}
	return toControlModel(row.OverlayControl, row.TemplateSlug)
}

func (s *controlStore) GetManaged(ctx context.Context, userID int64, source, key string) (*model.Control, error) {
	row, err := s.queries.GetManagedControl(ctx, sqlc.GetManagedControlParams{
		UserID: userID,
		Source: &source,
		Key:    key,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toControlModel(row, nil)
}

func (s *controlStore) ListByUser(ctx context.Context, userID int64) ([]model.Control, error) {
	rows, err := s.queries.ListControlsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]model.Control, 0, len(rows))
	for _, row := range rows {
		c, err := toControlModel(row.OverlayControl, row.TemplateSlug)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, nil
}

func (s *controlStore) LockManaged(ctx context.Context, userID int64, source, key string) ([]model.Control, error) {
	rows, err := s.queries.LockManagedControls(ctx, sqlc.LockManagedControlsParams{
		UserID: userID,
		Source: &source,
		Key:    key,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.Control, 0, len(rows))
	for _, row := range rows {
		c, err := toControlModel(row.OverlayControl, row.TemplateSlug)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, nil
}

func (s *controlStore) SetValue(ctx context.Context, id int64, value string) error {
	return s.queries.UpdateControlValue(ctx, sqlc.UpdateControlValueParams{ID: id, Value: value})
}

func (s *controlStore) UpdateMetadata(ctx context.Context, control *model.Control) error {
	config, err := json.Marshal(control.Config)
	if err != nil {
		return fmt.Errorf("encoding control config: %w", err)
	}
	return s.queries.UpdateControlMetadata(ctx, sqlc.UpdateControlMetadataParams{
		ID:        control.ID,
		UserID:    control.UserID,
		Label:     control.Label,
		Config:    config,
		SortOrder: control.SortOrder,
	})
}

func (s *controlStore) Delete(ctx context.Context, userID, id int64) error {
	n, err := s.queries.DeleteControl(ctx, sqlc.DeleteControlParams{ID: id, UserID: userID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *controlStore) DeleteManagedBySource(ctx context.Context, userID int64, source string) (int64, error) {
	return s.queries.DeleteManagedControlsBySource(ctx, sqlc.DeleteManagedControlsBySourceParams{
		UserID: userID,
		Source: &source,
	})
}

func toControlModel(row sqlc.OverlayControl, templateSlug *string) (*model.Control, error) {
	var config model.ControlConfig
	if len(row.Config) > 0 {
		if err := json.Unmarshal(row.Config, &config); err != nil {
			return nil, fmt.Errorf("decoding config for control %d: %w", row.ID, err)
		}
	}
	return &model.Control{
		ID:            row.ID,
		UserID:        row.UserID,
		TemplateID:    row.TemplateID,
		TemplateSlug:  templateSlug,
		Key:           row.Key,
		Label:         row.Label,
		Type:          model.ControlType(row.Type),
		Value:         row.Value,
		Config:        config,
		Source:        row.Source,
		SourceManaged: row.SourceManaged,
		SortOrder:     row.SortOrder,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}, nil
}
