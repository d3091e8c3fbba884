package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Taqey/Foodo-sub000/internal/cache"
)

type Reader interface {
	Config() kafkago.ReaderConfig
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Sink receives invalidations published by other instances.
type Sink interface {
	ApplyRemote(ctx context.Context, inv cache.Invalidation) error
}

// Subscriber is the backplane's receiving side. Messages are applied one at
// a time, in partition order.
type Subscriber struct {
	reader Reader
	sink   Sink
	logger *zap.Logger

	idleBackoff  time.Duration
	errorBackoff time.Duration
}

func NewSubscriber(reader Reader, sink Sink, logger *zap.Logger) *Subscriber {
	return &Subscriber{
		reader:       reader,
		sink:         sink,
		logger:       logger,
		idleBackoff:  10 * time.Second,
		errorBackoff: 500 * time.Millisecond,
	}
}

// Start blocks until ctx is done.
func (s *Subscriber) Start(ctx context.Context) {
	rc := s.reader.Config()
	s.logger.Info("starting invalidation subscriber",
		zap.Strings("brokers", rc.Brokers),
		zap.String("group", rc.GroupID),
		zap.String("topic", rc.Topic),
	)

	for {
		if ctx.Err() != nil {
			return
		}

		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			if isBenignFetchTimeout(err) {
				s.logger.Debug("fetch timeout (idle), backing off", zap.Error(err))
				sleepWithContext(ctx, s.idleBackoff)
				continue
			}
			s.logger.Warn("FetchMessage error, backing off", zap.Error(err))
			sleepWithContext(ctx, s.errorBackoff)
			continue
		}

		s.handle(ctx, msg)

		if err := s.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("commit failed",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			sleepWithContext(ctx, s.errorBackoff)
		}
	}
}

// handle never blocks the stream. Local eviction happens before ApplyRemote
// can fail, so a failed message is logged and committed, not redelivered.
func (s *Subscriber) handle(ctx context.Context, msg kafkago.Message) {
	fields := []zap.Field{
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	}

	var inv cache.Invalidation
	if err := json.Unmarshal(msg.Value, &inv); err != nil {
		s.logger.Warn("skipping malformed invalidation", append(fields, zap.Error(err))...)
		return
	}
	if err := s.sink.ApplyRemote(ctx, inv); err != nil {
		s.logger.Warn("applying remote invalidation failed", append(fields,
			zap.String("origin", inv.Origin),
			zap.String("cache_key", inv.Key),
			zap.String("prefix", inv.Prefix),
			zap.Error(err),
		)...)
		return
	}
	s.logger.Debug("remote invalidation applied", append(fields,
		zap.String("origin", inv.Origin),
		zap.String("cache_key", inv.Key),
		zap.String("prefix", inv.Prefix),
	)...)
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func isBenignFetchTimeout(err error) bool {
	s := err.Error()
	return strings.Contains(s, "Request Timed Out") ||
		strings.Contains(s, "no messages received from kafka within the allocated time")
}
