package service

import (
	"context"
	"errors"
	"log/slog"

	"liveoverlay.app/hooks/internal/broadcast"
	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/model"
	"liveoverlay.app/hooks/internal/store"
)

type AlertDispatchService interface {
	// Dispatch reports whether an alert was emitted. A missing mapping and
	// any emission failure both yield false; neither is returned as an error.
	Dispatch(ctx context.Context, event driver.NormalizedEvent, eventID int64, user *model.User) bool
}

type alertDispatchService struct {
	mappings  store.MappingStore
	publisher broadcast.Publisher
}

func NewAlertDispatchService(mappings store.MappingStore, publisher broadcast.Publisher) AlertDispatchService {
	return &alertDispatchService{
		mappings:  mappings,
		publisher: publisher,
	}
}

func (s *alertDispatchService) Dispatch(ctx context.Context, event driver.NormalizedEvent, eventID int64, user *model.User) (dispatched bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "alert dispatch panicked", "panic", r)
			dispatched = false
		}
	}()

	mapping, err := s.mappings.GetEnabled(ctx, user.ID, event.Service, event.EventType)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.ErrorContext(ctx, "alert mapping lookup failed", "error", err)
		}
		return false
	}

	msg := broadcast.Message{
		Channel: user.ChannelName,
		Event:   broadcast.EventAlertTriggered,
		Payload: broadcast.AlertTriggered{
			Service:      event.Service,
			EventType:    event.EventType,
			EventID:      eventID,
			TemplateSlug: mapping.Template.Slug,
			Template: broadcast.AlertTemplate{
				HTML: mapping.Template.HTML,
				CSS:  mapping.Template.CSS,
				JS:   mapping.Template.JS,
			},
			Tags:          event.TagValues(),
			DurationMS:    mapping.Mapping.DurationMS,
			TransitionIn:  mapping.Mapping.TransitionIn,
			TransitionOut: mapping.Mapping.TransitionOut,
		},
	}

	if err := s.publisher.Publish(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "alert dispatch failed", "template_id", mapping.Template.ID, "error", err)
		return false
	}

	slog.InfoContext(ctx, "alert dispatched", "template_id", mapping.Template.ID, "event_type", event.EventType)
	return true
}
