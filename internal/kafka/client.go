package kafka

import (
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Taqey/Foodo-sub000/internal/config"
)

// NewReader joins a consumer group of its own: every instance must see
// every invalidation. It starts at the log end since older removals are
// already reflected in a freshly started cache.
func NewReader(cfg config.Kafka, instanceID string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.Group + "-" + instanceID,
		StartOffset:    kafkago.LastOffset,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: time.Second,
	})
}

func NewWriter(cfg config.Kafka) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
}
