package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisPublisher struct {
	client *redis.Client
	prefix string
	maxLen int64
}

// NewRedisPublisher appends each message to the stream "<prefix>:<channel>",
// approximately trimmed to maxLen entries.
func NewRedisPublisher(client *redis.Client, prefix string, maxLen int64) Publisher {
	return &redisPublisher{
		client: client,
		prefix: prefix,
		maxLen: maxLen,
	}
}

func StreamName(prefix, channel string) string {
	return prefix + ":" + channel
}

func (p *redisPublisher) Publish(ctx context.Context, msg Message) error {
	data, err := encode(msg, time.Now())
	if err != nil {
		return err
	}

	stream := StreamName(p.prefix, msg.Channel)
	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"event":   string(msg.Event),
			"message": data,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", stream, err)
	}

	slog.DebugContext(ctx, "broadcast published", "stream", stream, "event", msg.Event)
	return nil
}

func (p *redisPublisher) Close() error {
	return p.client.Close()
}
