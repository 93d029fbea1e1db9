package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are attached to every record logged with a context that carries
// them. The webhook handler sets Service and IntegrationID once the request is
// resolved, so everything downstream logs them without repeating.
type LogFields struct {
	UserID        *int64
	IntegrationID *int64
	EventID       *int64
	Service       *string
	EventType     *string
	MessageID     *string
	Component     string // e.g. "hooks.service.control_update"
}

// WithLogFields merges fields into the context. Non-nil values in fields win.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := merge(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func merge(base, next LogFields) LogFields {
	out := base
	if next.UserID != nil {
		out.UserID = next.UserID
	}
	if next.IntegrationID != nil {
		out.IntegrationID = next.IntegrationID
	}
	if next.EventID != nil {
		out.EventID = next.EventID
	}
	if next.Service != nil {
		out.Service = next.Service
	}
	if next.EventType != nil {
		out.EventType = next.EventType
	}
	if next.MessageID != nil {
		out.MessageID = next.MessageID
	}
	if next.Component != "" {
		out.Component = next.Component
	}
	return out
}

// Ptr returns a pointer to v, for inline LogFields literals.
func Ptr[T any](v T) *T {
	return &v
}
