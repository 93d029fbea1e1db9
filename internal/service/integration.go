package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"liveoverlay.app/hooks/common/id"
	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/model"
	"liveoverlay.app/hooks/internal/store"
)

const (
	webhookTokenBytes  = 32
	defaultEventsLimit = 50
	maxEventsLimit     = 200
)

// CredentialSealer encrypts credential blobs bound to an owner.
type CredentialSealer interface {
	Seal(plaintext, associated []byte) ([]byte, error)
	Open(sealed, associated []byte) ([]byte, error)
}

type ConnectParams struct {
	UserID      int64
	Service     string
	Credentials map[string]string
	Settings    model.IntegrationSettings
	TestMode    bool
}

// UpdateIntegrationParams leaves nil fields unchanged.
type UpdateIntegrationParams struct {
	UserID      int64
	Service     string
	Credentials map[string]string
	Settings    *model.IntegrationSettings
	IsEnabled   *bool
	TestMode    *bool
}

type IntegrationService interface {
	Connect(ctx context.Context, params ConnectParams) (*model.Integration, error)
	Update(ctx context.Context, params UpdateIntegrationParams) (*model.Integration, error)
	// Disconnect removes the integration and its source-managed controls,
	// returning how many controls were deleted.
	Disconnect(ctx context.Context, userID int64, service string) (int64, error)
	RotateWebhookToken(ctx context.Context, userID int64, service string) (*model.Integration, error)
	Get(ctx context.Context, userID int64, service string) (*model.Integration, error)
	List(ctx context.Context, userID int64) ([]model.Integration, error)
	ListEvents(ctx context.Context, userID int64, service string, limit int32) ([]model.ExternalEvent, error)

	// FindForWebhook resolves an enabled integration by its opaque token and
	// service. Any miss is ErrIntegrationNotFound.
	FindForWebhook(ctx context.Context, service, webhookToken string) (*model.Integration, error)
	Credentials(integration *model.Integration) (map[string]string, error)
	WebhookURL(integration *model.Integration) string
}

type integrationService struct {
	integrations store.IntegrationStore
	events       store.ExternalEventStore
	txRunner     TxRunner
	registry     *driver.Registry
	sealer       CredentialSealer
	baseURL      string
}

func NewIntegrationService(
	integrations store.IntegrationStore,
	events store.ExternalEventStore,
	txRunner TxRunner,
	registry *driver.Registry,
	sealer CredentialSealer,
	baseURL string,
) IntegrationService {
	return &integrationService{
		integrations: integrations,
		events:       events,
		txRunner:     txRunner,
		registry:     registry,
		sealer:       sealer,
		baseURL:      baseURL,
	}
}

func (s *integrationService) Connect(ctx context.Context, params ConnectParams) (*model.Integration, error) {
	d, err := s.registry.Driver(params.Service)
	if err != nil {
		return nil, err
	}
	if err := driver.ValidateCredentials(d, params.Credentials); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	_, err = s.integrations.GetByUserAndService(ctx, params.UserID, params.Service)
	if err == nil {
		return nil, ErrAlreadyConnected
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking existing integration: %w", err)
	}

	token, err := generateWebhookToken()
	if err != nil {
		return nil, fmt.Errorf("generating webhook token: %w", err)
	}

	integration := &model.Integration{
		ID:           id.New(),
		UserID:       params.UserID,
		Service:      params.Service,
		WebhookToken: token,
		Settings:     params.Settings,
		IsEnabled:    true,
		TestMode:     params.TestMode,
	}
	integration.Credentials, err = s.seal(integration.ID, params.Credentials)
	if err != nil {
		return nil, err
	}

	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		if err := sp.Integrations().Create(ctx, integration); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrAlreadyConnected
			}
			return fmt.Errorf("creating integration: %w", err)
		}
		_, err := provisionControls(ctx, sp.Controls(), params.UserID, d)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "integration connected", "user_id", params.UserID, "service", params.Service, "integration_id", integration.ID)
	return integration, nil
}

func (s *integrationService) Update(ctx context.Context, params UpdateIntegrationParams) (*model.Integration, error) {
	integration, err := s.Get(ctx, params.UserID, params.Service)
	if err != nil {
		return nil, err
	}

	if params.Credentials != nil {
		d, err := s.registry.Driver(params.Service)
		if err != nil {
			return nil, err
		}
		if err := driver.ValidateCredentials(d, params.Credentials); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		integration.Credentials, err = s.seal(integration.ID, params.Credentials)
		if err != nil {
			return nil, err
		}
	}
	if params.Settings != nil {
		integration.Settings = *params.Settings
	}
	if params.IsEnabled != nil {
		integration.IsEnabled = *params.IsEnabled
	}
	if params.TestMode != nil {
		integration.TestMode = *params.TestMode
	}

	if err := s.integrations.Update(ctx, integration); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIntegrationNotFound
		}
		return nil, fmt.Errorf("updating integration: %w", err)
	}
	return integration, nil
}

func (s *integrationService) Disconnect(ctx context.Context, userID int64, service string) (int64, error) {
	integration, err := s.Get(ctx, userID, service)
	if err != nil {
		return 0, err
	}

	var removed int64
	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		var err error
		removed, err = deprovisionControls(ctx, sp.Controls(), userID, service)
		if err != nil {
			return err
		}
		if err := sp.Integrations().Delete(ctx, integration.ID); err != nil {
			return fmt.Errorf("deleting integration: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "integration disconnected", "user_id", userID, "service", service, "controls_removed", removed)
	return removed, nil
}

func (s *integrationService) RotateWebhookToken(ctx context.Context, userID int64, service string) (*model.Integration, error) {
	integration, err := s.Get(ctx, userID, service)
	if err != nil {
		return nil, err
	}
	token, err := generateWebhookToken()
	if err != nil {
		return nil, fmt.Errorf("generating webhook token: %w", err)
	}
	rotated, err := s.integrations.SetWebhookToken(ctx, integration.ID, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIntegrationNotFound
		}
		return nil, fmt.Errorf("rotating webhook token: %w", err)
	}
	return rotated, nil
}

func (s *integrationService) Get(ctx context.Context, userID int64, service string) (*model.Integration, error) {
	integration, err := s.integrations.GetByUserAndService(ctx, userID, service)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIntegrationNotFound
		}
		return nil, fmt.Errorf("fetching integration: %w", err)
	}
	return integration, nil
}

func (s *integrationService) List(ctx context.Context, userID int64) ([]model.Integration, error) {
	return s.integrations.ListByUser(ctx, userID)
}

func (s *integrationService) ListEvents(ctx context.Context, userID int64, service string, limit int32) ([]model.ExternalEvent, error) {
	if _, err := s.Get(ctx, userID, service); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultEventsLimit
	}
	if limit > maxEventsLimit {
		limit = maxEventsLimit
	}
	return s.events.ListByUserService(ctx, userID, service, limit)
}

func (s *integrationService) FindForWebhook(ctx context.Context, service, webhookToken string) (*model.Integration, error) {
	if webhookToken == "" {
		return nil, ErrIntegrationNotFound
	}
	integration, err := s.integrations.GetEnabledByToken(ctx, webhookToken, service)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIntegrationNotFound
		}
		return nil, fmt.Errorf("resolving webhook token: %w", err)
	}
	return integration, nil
}

func (s *integrationService) Credentials(integration *model.Integration) (map[string]string, error) {
	creds := map[string]string{}
	if len(integration.Credentials) == 0 {
		return creds, nil
	}
	plaintext, err := s.sealer.Open(integration.Credentials, credentialsAAD(integration.ID))
	if err != nil {
		return nil, fmt.Errorf("opening credentials for integration %d: %w", integration.ID, err)
	}
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("decoding credentials for integration %d: %w", integration.ID, err)
	}
	return creds, nil
}

func (s *integrationService) WebhookURL(integration *model.Integration) string {
	return s.baseURL + "/webhooks/" + integration.Service + "/" + integration.WebhookToken
}

func (s *integrationService) seal(integrationID int64, creds map[string]string) ([]byte, error) {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("encoding credentials: %w", err)
	}
	sealed, err := s.sealer.Seal(plaintext, credentialsAAD(integrationID))
	if err != nil {
		return nil, fmt.Errorf("sealing credentials: %w", err)
	}
	return sealed, nil
}

func credentialsAAD(integrationID int64) []byte {
	return []byte("integration:" + strconv.FormatInt(integrationID, 10))
}

func generateWebhookToken() (string, error) {
	b := make([]byte, webhookTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
