package broadcast

import (
	"context"
	"log/slog"
	"time"
)

type logPublisher struct{}

// NewLogPublisher logs messages instead of delivering them. Used in local
// development without a broker.
func NewLogPublisher() Publisher {
	return logPublisher{}
}

func (logPublisher) Publish(ctx context.Context, msg Message) error {
	data, err := encode(msg, time.Now())
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "broadcast", "channel", msg.Channel, "event", msg.Event, "message", string(data))
	return nil
}

func (logPublisher) Close() error {
	return nil
}
