package memstore

import (
	"context"
	"time"

	"pos-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

// OutboxStore is the relay view over events enqueued by committed units.
type OutboxStore struct {
	store *Store
}

func NewOutboxStore(store *Store) *OutboxStore {
	return &OutboxStore{store: store}
}

func (o *OutboxStore) FetchPending(_ context.Context, limit int) ([]shared.OutboxEvent, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()

	var out []shared.OutboxEvent
	for _, row := range o.store.outbox {
		if row.publishedAt != nil {
			continue
		}
		out = append(out, row.event)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (o *OutboxStore) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()

	pending := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		pending[id] = struct{}{}
	}
	for _, row := range o.store.outbox {
		if _, ok := pending[row.event.ID]; ok && row.publishedAt == nil {
			t := at
			row.publishedAt = &t
		}
	}
	return nil
}
