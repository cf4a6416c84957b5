package rabbitmq

import (
	"context"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/rabbitmq"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

const source = "rabbitmq"

// handler represents the wake trigger.
type handler interface {
	HandleMessage(source string, body []byte) bool
}

// Consumer forwards wake messages from a fanout exchange to the wake trigger.
type Consumer struct {
	client  *rabbitmq.Client
	handler handler
	queue   amqp.Queue
	stop    chan struct{}
	done    chan struct{}
}

// NewConsumer declares the wake exchange and a private queue bound to it.
func NewConsumer(client *rabbitmq.Client, handler handler) *Consumer {
	exchange := viper.GetString("wake.rabbitmq.exchange")
	if exchange == "" {
		exchange = "storefront.wake"
	}

	if err := client.DeclareFanout(exchange); err != nil {
		panic(err)
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Exclusive:  true,
		AutoDelete: true,
	})
	if err != nil {
		panic(err)
	}

	if err := client.BindQueue(queue.Name, exchange); err != nil {
		panic(err)
	}

	return &Consumer{
		client:  client,
		handler: handler,
		queue:   queue,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run consumes until Shutdown is called, ctx is done or the channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	defer close(c.done)

	msgs, err := c.client.Consume(rabbitmq.ConsumeConfig{
		Queue:    c.queue.Name,
		Consumer: "checkout-agent",
		// Wake signals are idempotent; a lost one is covered by the next trigger.
		AutoAck: true,
	})
	if err != nil {
		return err
	}

	slog.Info("Wake consumer started", "source", source, "queue", c.queue.Name)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.stop:
			slog.Info("Stopping wake consumer", "source", source)

			return nil
		case msg, ok := <-msgs:
			if !ok {
				slog.Info("Message channel closed", "source", source)

				return nil
			}
			c.handler.HandleMessage(source, msg.Body)
		}
	}
}

// Shutdown stops the consume loop.
func (c *Consumer) Shutdown() error {
	close(c.stop)

	select {
	case <-c.done:
		slog.Info("Wake consumer stopped successfully", "source", source)
	case <-time.After(5 * time.Second):
		slog.Warn("Wake consumer shutdown timeout", "source", source)
	}

	return nil
}
