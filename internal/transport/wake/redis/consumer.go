package redis

import (
	"context"
	"log/slog"
	"sync"

	"github.com/corray333/backend-labs/storefront/internal/dal/redis"
	"github.com/spf13/viper"
)

const source = "redis"

type handler interface {
	HandleMessage(source string, body []byte) bool
}

// Consumer forwards messages published on the wake channel to the wake trigger.
type Consumer struct {
	client   *redis.Client
	handler  handler
	channel  string
	stop     chan struct{}
	stopOnce sync.Once
}

func NewConsumer(client *redis.Client, handler handler) *Consumer {
	channel := viper.GetString("wake.redis.channel")
	if channel == "" {
		channel = "storefront:orders:sync"
	}

	return &Consumer{
		client:  client,
		handler: handler,
		channel: channel,
		stop:    make(chan struct{}),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	sub := c.client.Subscribe(ctx, c.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	slog.Info("Wake consumer started", "source", source, "channel", c.channel)

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.stop:
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			c.handler.HandleMessage(source, []byte(msg.Payload))
		}
	}
}

func (c *Consumer) Shutdown() error {
	c.stopOnce.Do(func() { close(c.stop) })

	return nil
}
