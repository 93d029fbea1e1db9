package store

import (
	"liveoverlay.app/hooks/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) Sessions() SessionStore {
	return newSessionStore(s.queries)
}

func (s *Stores) Integrations() IntegrationStore {
	return newIntegrationStore(s.queries)
}

func (s *Stores) Controls() ControlStore {
	return newControlStore(s.queries)
}

func (s *Stores) Mappings() MappingStore {
	return newMappingStore(s.queries)
}

func (s *Stores) ExternalEvents() ExternalEventStore {
	return newExternalEventStore(s.queries)
}
