package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/corray333/backend-labs/storefront/internal/dal/redis"
	"github.com/corray333/backend-labs/storefront/internal/wake"
	"github.com/spf13/viper"
)

// WakeAnnouncer publishes wake messages on a Redis pub/sub channel.
type WakeAnnouncer struct {
	client  *redis.Client
	channel string
}

func NewWakeAnnouncer(client *redis.Client) *WakeAnnouncer {
	channel := viper.GetString("wake.redis.channel")
	if channel == "" {
		channel = "storefront:orders:sync"
	}

	return &WakeAnnouncer{
		client:  client,
		channel: channel,
	}
}

func (a *WakeAnnouncer) Name() string {
	return "redis"
}

func (a *WakeAnnouncer) Announce(ctx context.Context, msg wake.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode wake message: %w", err)
	}

	if err := a.client.Publish(ctx, a.channel, body); err != nil {
		return fmt.Errorf("failed to publish wake message: %w", err)
	}

	return nil
}
