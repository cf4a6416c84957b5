package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const source = "kafka"

type handler interface {
	HandleMessage(source string, body []byte) bool
}

// Consumer forwards records of the wake topic to the wake trigger.
type Consumer struct {
	reader  *kafka.Reader
	handler handler
}

func NewConsumer(reader *kafka.Reader, handler handler) *Consumer {
	return &Consumer{
		reader:  reader,
		handler: handler,
	}
}

// Run fetches records until ctx is done or the reader is closed.
// Records are committed after handling.
func (c *Consumer) Run(ctx context.Context) error {
	cfg := c.reader.Config()
	slog.Info("Wake consumer started", "source", source, "topic", cfg.Topic, "group_id", cfg.GroupID)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			slog.Warn("Error fetching wake message", "source", source, "error", err)
			time.Sleep(time.Second)

			continue
		}

		c.handler.HandleMessage(source, m.Value)

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			slog.Warn("Failed to commit wake message", "source", source, "offset", m.Offset, "error", err)
		}
	}
}

func (c *Consumer) Shutdown() error {
	return c.reader.Close()
}
