// Package notification provides broker-backed implementations of the
// sales announcement channel.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sales_service/internal/sales"
)

// Channel carries every sale lifecycle event. Subscribers filter on the
// event type field.
const Channel = "sales.events"

// RedisNotifier publishes sale events to a redis pub/sub channel.
// Fire-and-forget: subscribers that are not listening miss the event.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisClient connects and pings a redis client.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewRedisNotifier creates a notifier on an open client.
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Close closes the underlying client.
func (n *RedisNotifier) Close() error {
	if n.client != nil {
		return n.client.Close()
	}
	return nil
}

// Notify publishes the event as JSON on the sales channel.
func (n *RedisNotifier) Notify(ctx context.Context, event sales.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := n.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event to redis: %w", err)
	}
	return nil
}
