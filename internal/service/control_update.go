package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"liveoverlay.app/hooks/common/id"
	"liveoverlay.app/hooks/internal/broadcast"
	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/model"
	"liveoverlay.app/hooks/internal/store"
)

// ControlUpdateService owns every mutation of source-managed controls.
type ControlUpdateService interface {
	// Provision creates the driver's declared controls that the user does not
	// have yet and returns how many were created. Existing values are kept.
	Provision(ctx context.Context, userID int64, d driver.Driver) (int, error)
	// Deprovision deletes the user's source-managed controls for service.
	Deprovision(ctx context.Context, userID int64, service string) (int64, error)
	// ApplyUpdates mutates every matching managed control and broadcasts the
	// new values after commit. It returns the number of controls changed.
	ApplyUpdates(ctx context.Context, user *model.User, service string, updates map[string]driver.UpdateInstruction) (int, error)
}

type controlUpdateService struct {
	controls  store.ControlStore
	txRunner  TxRunner
	publisher broadcast.Publisher
}

func NewControlUpdateService(controls store.ControlStore, txRunner TxRunner, publisher broadcast.Publisher) ControlUpdateService {
	return &controlUpdateService{
		controls:  controls,
		txRunner:  txRunner,
		publisher: publisher,
	}
}

func (s *controlUpdateService) Provision(ctx context.Context, userID int64, d driver.Driver) (int, error) {
	return provisionControls(ctx, s.controls, userID, d)
}

func (s *controlUpdateService) Deprovision(ctx context.Context, userID int64, service string) (int64, error) {
	return deprovisionControls(ctx, s.controls, userID, service)
}

func (s *controlUpdateService) ApplyUpdates(ctx context.Context, user *model.User, service string, updates map[string]driver.UpdateInstruction) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	// Lock rows in a stable key order so concurrent events cannot deadlock.
	keys := slices.Sorted(maps.Keys(updates))

	var changed []model.Control
	err := s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		changed = changed[:0]
		for _, key := range keys {
			instruction := updates[key]
			controls, err := sp.Controls().LockManaged(ctx, user.ID, service, key)
			if err != nil {
				return fmt.Errorf("locking control %s: %w", key, err)
			}
			for _, c := range controls {
				value, err := nextValue(c, instruction)
				if err != nil {
					slog.WarnContext(ctx, "control update rejected",
						"control_id", c.ID, "key", key, "kind", instruction.Kind, "error", err)
					continue
				}
				if err := sp.Controls().SetValue(ctx, c.ID, value); err != nil {
					return fmt.Errorf("updating control %d: %w", c.ID, err)
				}
				c.Value = value
				changed = append(changed, c)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, c := range changed {
		publishControl(ctx, s.publisher, user.ChannelName, c)
	}
	return len(changed), nil
}

func provisionControls(ctx context.Context, controls store.ControlStore, userID int64, d driver.Driver) (int, error) {
	source := d.ServiceKey()
	created := 0
	for i, def := range d.AutoProvisionedControls() {
		_, err := controls.GetManaged(ctx, userID, source, def.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return created, fmt.Errorf("looking up control %s: %w", def.Key, err)
		}

		_, err = controls.CreateIfAbsent(ctx, &model.Control{
			ID:            id.New(),
			UserID:        userID,
			Key:           def.Key,
			Label:         def.Label,
			Type:          def.Type,
			Value:         def.InitialValue,
			Source:        &source,
			SourceManaged: true,
			SortOrder:     int32(i),
		})
		if errors.Is(err, store.ErrDuplicate) {
			// Lost a race with a concurrent provision, or the user owns the key.
			continue
		}
		if err != nil {
			return created, fmt.Errorf("creating control %s: %w", def.Key, err)
		}
		created++
	}

	slog.InfoContext(ctx, "controls provisioned", "user_id", userID, "service", source, "created", created)
	return created, nil
}

// deprovisionControls removes the source-managed controls of service for
// userID. User-created controls with the same keys are left alone.
func deprovisionControls(ctx context.Context, controls store.ControlStore, userID int64, service string) (int64, error) {
	removed, err := controls.DeleteManagedBySource(ctx, userID, service)
	if err != nil {
		return 0, fmt.Errorf("deprovisioning %s controls: %w", service, err)
	}
	slog.InfoContext(ctx, "controls deprovisioned", "user_id", userID, "service", service, "removed", removed)
	return removed, nil
}

func publishControl(ctx context.Context, publisher broadcast.Publisher, channel string, c model.Control) {
	slug := ""
	if c.TemplateSlug != nil {
		slug = *c.TemplateSlug
	}
	err := publisher.Publish(ctx, broadcast.Message{
		Channel: channel,
		Event:   broadcast.EventControlUpdated,
		Payload: broadcast.ControlUpdated{
			TemplateSlug: slug,
			Key:          c.BroadcastKey(),
			Type:         string(c.Type),
			Value:        c.Value,
		},
	})
	if err != nil {
		slog.WarnContext(ctx, "control broadcast failed", "control_id", c.ID, "key", c.BroadcastKey(), "error", err)
	}
}
