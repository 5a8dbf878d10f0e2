// internal/notification/publisher.go

package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Publisher relays a notification to whatever is listening for the
// recipient in real time
type Publisher interface {
	Publish(ctx context.Context, userID int64, payload *Payload) error
}

// Channel returns the pub/sub channel of a user
func Channel(userID int64) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// RedisPublisher publishes payloads as JSON on a per-user Redis channel
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher returns a Redis publisher, or a no-op one when client is nil
func NewPublisher(client *redis.Client) Publisher {
	if client == nil {
		return NopPublisher{}
	}
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, userID int64, payload *Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := p.client.Publish(ctx, Channel(userID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// NopPublisher drops every payload
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, int64, *Payload) error { return nil }
