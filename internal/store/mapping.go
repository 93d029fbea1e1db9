package store

import (
	"context"

	"liveoverlay.app/hooks/core/db/sqlc"
	"liveoverlay.app/hooks/internal/model"
)

type mappingStore struct {
	queries *sqlc.Queries
}

func newMappingStore(queries *sqlc.Queries) MappingStore {
	return &mappingStore{queries: queries}
}

func (s *mappingStore) GetEnabled(ctx context.Context, userID int64, service, eventType string) (*model.AlertMapping, error) {
	row, err := s.queries.GetEnabledMapping(ctx, sqlc.GetEnabledMappingParams{
		UserID:    userID,
		Service:   service,
		EventType: eventType,
	})
	if err != nil {
		return nil, mapError(err)
	}
	m, t := row.EventTemplateMapping, row.OverlayTemplate
	return &model.AlertMapping{
		Mapping: model.EventTemplateMapping{
			ID:            m.ID,
			UserID:        m.UserID,
			Service:       m.Service,
			EventType:     m.EventType,
			TemplateID:    m.TemplateID,
			DurationMS:    m.DurationMs,
			TransitionIn:  m.TransitionIn,
			TransitionOut: m.TransitionOut,
			IsEnabled:     m.IsEnabled,
			CreatedAt:     m.CreatedAt.Time,
			UpdatedAt:     m.UpdatedAt.Time,
		},
		Template: model.OverlayTemplate{
			ID:        t.ID,
			UserID:    t.UserID,
			Slug:      t.Slug,
			Name:      t.Name,
			HTML:      t.Html,
			CSS:       t.Css,
			JS:        t.Js,
			CreatedAt: t.CreatedAt.Time,
			UpdatedAt: t.UpdatedAt.Time,
		},
	}, nil
}
