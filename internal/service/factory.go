package service

import (
	"liveoverlay.app/hooks/internal/broadcast"
	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/store"
)

type ServicesConfig struct {
	Stores         *store.Stores
	TxRunner       TxRunner
	Registry       *driver.Registry
	Publisher      broadcast.Publisher
	Sealer         CredentialSealer
	WebhookBaseURL string
}

type Services struct {
	stores         *store.Stores
	txRunner       TxRunner
	registry       *driver.Registry
	publisher      broadcast.Publisher
	sealer         CredentialSealer
	webhookBaseURL string
}

func NewServices(cfg ServicesConfig) *Services {
	return &Services{
		stores:         cfg.Stores,
		txRunner:       cfg.TxRunner,
		registry:       cfg.Registry,
		publisher:      cfg.Publisher,
		sealer:         cfg.Sealer,
		webhookBaseURL: cfg.WebhookBaseURL,
	}
}

func (s *Services) Registry() *driver.Registry {
	return s.registry
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.stores.Sessions())
}

func (s *Services) ControlUpdates() ControlUpdateService {
	return NewControlUpdateService(s.stores.Controls(), s.txRunner, s.publisher)
}

func (s *Services) Alerts() AlertDispatchService {
	return NewAlertDispatchService(s.stores.Mappings(), s.publisher)
}

func (s *Services) EventIngest() EventIngestService {
	return NewEventIngestService(
		s.stores.Users(),
		s.stores.Integrations(),
		s.stores.ExternalEvents(),
		s.ControlUpdates(),
		s.Alerts(),
	)
}

func (s *Services) Integrations() IntegrationService {
	return NewIntegrationService(
		s.stores.Integrations(),
		s.stores.ExternalEvents(),
		s.txRunner,
		s.registry,
		s.sealer,
		s.webhookBaseURL,
	)
}

func (s *Services) Controls() ControlService {
	return NewControlService(s.stores.Controls(), s.publisher)
}
