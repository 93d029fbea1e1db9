package broadcast

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"liveoverlay.app/hooks/core/config"
)

// New builds the publisher selected by cfg.Driver.
func New(ctx context.Context, cfg config.BroadcastConfig) (Publisher, error) {
	switch cfg.Driver {
	case config.BroadcastRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return NewRedisPublisher(client, cfg.StreamPrefix, cfg.StreamMaxLen), nil
	case config.BroadcastKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	case config.BroadcastLog:
		return NewLogPublisher(), nil
	default:
		return nil, fmt.Errorf("unknown broadcast driver %q", cfg.Driver)
	}
}
