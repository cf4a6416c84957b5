package kafka

import (
	"fmt"
	"os"
	"strings"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

func brokers() []string {
	list := viper.GetStringSlice("wake.kafka.brokers")
	if len(list) == 0 {
		list = []string{"kafka:9092"}
	}

	return list
}

func topic() string {
	t := viper.GetString("wake.kafka.topic")
	if t == "" {
		t = "storefront.orders.sync"
	}

	return t
}

// NewWriter creates a writer for the wake topic.
func NewWriter() *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers()...),
		Topic:                  topic(),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

// NewReader creates a reader for the wake topic.
// Each agent needs its own group so that every agent sees every message.
func NewReader() *kafka.Reader {
	groupID := viper.GetString("wake.kafka.group_id")
	if groupID == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "local"
		}
		groupID = fmt.Sprintf("checkout-agent-%s", strings.ToLower(host))
	}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers(),
		Topic:    topic(),
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 1e6,
	})
}
