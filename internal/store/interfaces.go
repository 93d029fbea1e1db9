package store

import (
	"context"
	"errors"
	"time"

	"liveoverlay.app/hooks/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a write collides with a uniqueness constraint
var ErrDuplicate = errors.New("duplicate")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// SessionStore defines the contract for session data access
type SessionStore interface {
	GetValid(ctx context.Context, id int64) (*model.Session, error) // checks expiry
}

// IntegrationStore defines the contract for integration data access
type IntegrationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Integration, error)
	GetByUserAndService(ctx context.Context, userID int64, service string) (*model.Integration, error)
	GetEnabledByToken(ctx context.Context, webhookToken, service string) (*model.Integration, error)
	Create(ctx context.Context, integration *model.Integration) error
	Update(ctx context.Context, integration *model.Integration) error
	SetWebhookToken(ctx context.Context, id int64, webhookToken string) (*model.Integration, error)
	TouchLastReceived(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.Integration, error)
	ListByService(ctx context.Context, service string) ([]model.Integration, error)
}

// ControlStore defines the contract for overlay control data access
type ControlStore interface {
	// CreateIfAbsent inserts the control, returning ErrDuplicate when a
	// control with the same scope and key already exists.
	CreateIfAbsent(ctx context.Context, control *model.Control) (*model.Control, error)
	GetByID(ctx context.Context, userID, id int64) (*model.Control, error)
	GetManaged(ctx context.Context, userID int64, source, key string) (*model.Control, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Control, error)
	// LockManaged returns every source-managed control for (user, source, key)
	// locked for update. Must run inside a transaction.
	LockManaged(ctx context.Context, userID int64, source, key string) ([]model.Control, error)
	SetValue(ctx context.Context, id int64, value string) error
	UpdateMetadata(ctx context.Context, control *model.Control) error
	Delete(ctx context.Context, userID, id int64) error
	DeleteManagedBySource(ctx context.Context, userID int64, source string) (int64, error)
}

// MappingStore defines the contract for event to template mapping lookups
type MappingStore interface {
	GetEnabled(ctx context.Context, userID int64, service, eventType string) (*model.AlertMapping, error)
}

// ExternalEventStore defines the contract for stored webhook events
type ExternalEventStore interface {
	// Insert returns ErrDuplicate when the dedupe key already exists.
	Insert(ctx context.Context, event *model.ExternalEvent) (*model.ExternalEvent, error)
	MarkControlsUpdated(ctx context.Context, id int64) error
	MarkAlertDispatched(ctx context.Context, id int64) error
	ListByUserService(ctx context.Context, userID int64, service string, limit int32) ([]model.ExternalEvent, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}
