package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/corray333/backend-labs/storefront/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/storefront/internal/wake"
	"github.com/spf13/viper"
)

// WakeAnnouncer publishes wake messages to the fanout exchange every agent binds to.
type WakeAnnouncer struct {
	client   *rabbitmq.Client
	exchange string
}

func NewWakeAnnouncer(client *rabbitmq.Client) *WakeAnnouncer {
	exchange := viper.GetString("wake.rabbitmq.exchange")
	if exchange == "" {
		exchange = "storefront.wake"
	}

	if err := client.DeclareFanout(exchange); err != nil {
		panic(err)
	}

	return &WakeAnnouncer{
		client:   client,
		exchange: exchange,
	}
}

func (a *WakeAnnouncer) Name() string {
	return "rabbitmq"
}

func (a *WakeAnnouncer) Announce(ctx context.Context, msg wake.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode wake message: %w", err)
	}

	if err := a.client.Publish(ctx, a.exchange, "", body); err != nil {
		return fmt.Errorf("failed to publish wake message: %w", err)
	}

	return nil
}
