package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/corray333/backend-labs/storefront/internal/wake"
	"github.com/segmentio/kafka-go"
)

// WakeAnnouncer writes wake messages to the wake topic.
type WakeAnnouncer struct {
	writer *kafka.Writer
}

func NewWakeAnnouncer(writer *kafka.Writer) *WakeAnnouncer {
	return &WakeAnnouncer{writer: writer}
}

func (a *WakeAnnouncer) Name() string {
	return "kafka"
}

func (a *WakeAnnouncer) Announce(ctx context.Context, msg wake.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode wake message: %w", err)
	}

	if err := a.writer.WriteMessages(ctx, kafka.Message{Key: []byte(msg.Type), Value: body}); err != nil {
		return fmt.Errorf("failed to write wake message: %w", err)
	}

	return nil
}

// Close flushes and closes the writer.
func (a *WakeAnnouncer) Close() error {
	return a.writer.Close()
}
