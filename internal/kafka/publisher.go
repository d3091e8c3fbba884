package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Taqey/Foodo-sub000/internal/cache"
)

const originHeader = "origin"

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Publisher is the cache backplane's sending side.
type Publisher struct {
	writer Writer
}

func NewPublisher(w Writer) *Publisher {
	return &Publisher{writer: w}
}

// Publish sends inv keyed by its key or prefix so removals of the same
// pattern stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, inv cache.Invalidation) error {
	value, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("encode invalidation: %w", err)
	}
	msg := kafkago.Message{
		Key:   []byte(messageKey(inv)),
		Value: value,
		Headers: []kafkago.Header{
			{Key: originHeader, Value: []byte(inv.Origin)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write invalidation: %w", err)
	}
	return nil
}

func messageKey(inv cache.Invalidation) string {
	if inv.Key != "" {
		return "key:" + inv.Key
	}
	return "prefix:" + inv.Prefix
}
