package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ChannelPrefix is prepended to the destination user id to form the
// pub/sub channel a message is published on.
const ChannelPrefix = "notifications:"

// RedisNotifier publishes messages as JSON so that push gateways
// subscribed per user can forward them.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier returns nil for a nil client so it can sit in a Fanout
// unconditionally.
func NewRedisNotifier(client *redis.Client) Notifier {
	if client == nil {
		return nil
	}
	return &RedisNotifier{client: client}
}

// Channel names the pub/sub channel for a user.
func Channel(userID string) string {
	return ChannelPrefix + userID
}

func (n *RedisNotifier) Send(ctx context.Context, message Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := n.client.Publish(ctx, Channel(message.Destination), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
