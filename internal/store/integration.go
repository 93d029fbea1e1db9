package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"liveoverlay.app/hooks/core/db/sqlc"
	"liveoverlay.app/hooks/internal/model"
)

type integrationStore struct {
	queries *sqlc.Queries
}

func newIntegrationStore(queries *sqlc.Queries) IntegrationStore {
	return &integrationStore{queries: queries}
}

func (s *integrationStore) GetByID(ctx context.Context, id int64) (*model.Integration, error) {
	row, err := s.queries.GetIntegration(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return toIntegrationModel(row)
}

func (s *integrationStore) GetByUserAndService(ctx context.Context, userID int64, service string) (*model.Integration, error) {
	row, err := s.queries.GetIntegrationByUserAndService(ctx, sqlc.GetIntegrationByUserAndServiceParams{
		UserID:  userID,
		Service: service,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toIntegrationModel(row)
}

func (s *integrationStore) GetEnabledByToken(ctx context.Context, webhookToken, service string) (*model.Integration, error) {
	row, err := s.queries.GetEnabledIntegrationByToken(ctx, sqlc.GetEnabledIntegrationByTokenParams{
		WebhookToken: webhookToken,
		Service:      service,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toIntegrationModel(row)
}

func (s *integrationStore) Create(ctx context.Context, integration *model.Integration) error {
	settings, err := json.Marshal(integration.Settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	row, err := s.queries.CreateIntegration(ctx, sqlc.CreateIntegrationParams{
		ID:           integration.ID,
		UserID:       integration.UserID,
		Service:      integration.Service,
		WebhookToken: integration.WebhookToken,
		Credentials:  integration.Credentials,
		Settings:     settings,
		IsEnabled:    integration.IsEnabled,
		TestMode:     integration.TestMode,
	})
	if err != nil {
		return mapError(err)
	}
	created, err := toIntegrationModel(row)
	if err != nil {
		return err
	}
	*integration = *created
	return nil
}

func (s *integrationStore) Update(ctx context.Context, integration *model.Integration) error {
	settings, err := json.Marshal(integration.Settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	row, err := s.queries.UpdateIntegration(ctx, sqlc.UpdateIntegrationParams{
		ID:          integration.ID,
		Credentials: integration.Credentials,
		Settings:    settings,
		IsEnabled:   integration.IsEnabled,
		TestMode:    integration.TestMode,
	})
	if err != nil {
		return mapError(err)
	}
	updated, err := toIntegrationModel(row)
	if err != nil {
		return err
	}
	*integration = *updated
	return nil
}

func (s *integrationStore) SetWebhookToken(ctx context.Context, id int64, webhookToken string) (*model.Integration, error) {
	row, err := s.queries.UpdateIntegrationWebhookToken(ctx, sqlc.UpdateIntegrationWebhookTokenParams{
		ID:           id,
		WebhookToken: webhookToken,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toIntegrationModel(row)
}

func (s *integrationStore) TouchLastReceived(ctx context.Context, id int64, at time.Time) error {
	return s.queries.TouchIntegrationLastReceived(ctx, sqlc.TouchIntegrationLastReceivedParams{
		ID:             id,
		LastReceivedAt: toTimestamptz(at),
	})
}

func (s *integrationStore) Delete(ctx context.Context, id int64) error {
	return s.queries.DeleteIntegration(ctx, id)
}

func (s *integrationStore) ListByUser(ctx context.Context, userID int64) ([]model.Integration, error) {
	rows, err := s.queries.ListIntegrationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toIntegrationModels(rows)
}

func (s *integrationStore) ListByService(ctx context.Context, service string) ([]model.Integration, error) {
	rows, err := s.queries.ListIntegrationsByService(ctx, service)
	if err != nil {
		return nil, err
	}
	return toIntegrationModels(rows)
}

func toIntegrationModels(rows []sqlc.Integration) ([]model.Integration, error) {
	result := make([]model.Integration, 0, len(rows))
	for _, row := range rows {
		m, err := toIntegrationModel(row)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, nil
}

func toIntegrationModel(row sqlc.Integration) (*model.Integration, error) {
	var settings model.IntegrationSettings
	if len(row.Settings) > 0 {
		if err := json.Unmarshal(row.Settings, &settings); err != nil {
			return nil, fmt.Errorf("decoding settings for integration %d: %w", row.ID, err)
		}
	}
	return &model.Integration{
		ID:             row.ID,
		UserID:         row.UserID,
		Service:        row.Service,
		WebhookToken:   row.WebhookToken,
		Credentials:    row.Credentials,
		Settings:       settings,
		IsEnabled:      row.IsEnabled,
		TestMode:       row.TestMode,
		LastReceivedAt: toTimePointer(row.LastReceivedAt),
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}, nil
}
