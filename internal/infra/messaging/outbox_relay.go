package messaging

import (
	"context"
	"log/slog"
	"time"

	"pos-checkout/internal/pkg/clock"
	"pos-checkout/internal/pkg/config"
	"pos-checkout/internal/pkg/errs"
	"pos-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the relay needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// OutboxRelay publishes committed-sale events written by the commit unit. Delivery is
// at least once: a crash between publish and mark re-sends the batch.
type OutboxRelay struct {
	store     shared.OutboxStore
	writer    MessageWriter
	clock     clock.Clock
	batchSize int
	interval  time.Duration
}

func NewOutboxRelay(store shared.OutboxStore, writer MessageWriter, clk clock.Clock, cfg config.KafkaConfig) *OutboxRelay {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return &OutboxRelay{
		store:     store,
		writer:    writer,
		clock:     clk,
		batchSize: batch,
		interval:  cfg.PollInterval,
	}
}

// RelayOnce publishes one batch and returns how many events were sent.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	events, err := r.store.FetchPending(ctx, r.batchSize)
	if err != nil {
		return 0, errs.Wrap(err, "fetch pending outbox events")
	}
	if len(events) == 0 {
		return 0, nil
	}

	msgs := make([]kafka.Message, len(events))
	ids := make([]uuid.UUID, len(events))
	for i, ev := range events {
		// keyed by sale so every event of one sale lands on one partition
		msgs[i] = kafka.Message{
			Key:   []byte(ev.AggregateID.String()),
			Value: ev.Payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(ev.Kind)},
				{Key: "event_id", Value: []byte(ev.ID.String())},
				{Key: "business_id", Value: []byte(ev.BusinessID.String())},
			},
			Time: ev.CreatedAt,
		}
		ids[i] = ev.ID
	}

	if err := r.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, errs.Wrap(err, "publish outbox events")
	}
	if err := r.store.MarkPublished(ctx, ids, r.clock.Now()); err != nil {
		return 0, errs.Wrap(err, "mark outbox events published")
	}
	return len(events), nil
}

// Run drains the outbox every interval until ctx is done.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.RelayOnce(ctx)
			if err != nil {
				slog.Error("outbox relay failed", "error", err.Error())
				continue
			}
			if n > 0 {
				slog.Debug("outbox events published", "count", n)
			}
		}
	}
}
