package memstore

import (
	"context"
	"time"

	"pos-checkout/internal/infra"
	"pos-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

// idempotencyRepo journals into tx when it is non-nil; otherwise it takes the store lock itself.
type idempotencyRepo struct {
	store *Store
	tx    *memTx
}

func (r *idempotencyRepo) lock() func() {
	if r.tx != nil {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *idempotencyRepo) journal(fn func()) {
	if r.tx != nil {
		r.tx.journal(fn)
	}
}

func (r *idempotencyRepo) TryAcquire(_ context.Context, rec shared.IdempotencyRecord) (bool, error) {
	defer r.lock()()
	k := guardKey{rec.BusinessID, rec.Key}
	existing, ok := r.store.guards[k]
	if ok && !existing.IsExpired(r.store.clock.Now()) {
		return false, nil
	}
	rec.Status = shared.IdempotencyStatusProcessing
	rec.ResultSaleID = nil
	r.store.guards[k] = rec
	r.journal(func() {
		if ok {
			r.store.guards[k] = existing
			return
		}
		delete(r.store.guards, k)
	})
	return true, nil
}

func (r *idempotencyRepo) Get(_ context.Context, businessID uuid.UUID, key string) (*shared.IdempotencyRecord, error) {
	defer r.lock()()
	rec, ok := r.store.guards[guardKey{businessID, key}]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return &rec, nil
}

func (r *idempotencyRepo) Complete(_ context.Context, businessID uuid.UUID, key string, saleID uuid.UUID) error {
	defer r.lock()()
	k := guardKey{businessID, key}
	rec, ok := r.store.guards[k]
	if !ok || rec.Status != shared.IdempotencyStatusProcessing {
		return infra.WrapRepoErr("no processing idempotency key to complete", nil, infra.KindConflict)
	}
	prev := rec
	rec.Status = shared.IdempotencyStatusCompleted
	rec.ResultSaleID = &saleID
	r.store.guards[k] = rec
	r.journal(func() { r.store.guards[k] = prev })
	return nil
}

// Release drops a processing record so the key can be retried. Completed records are kept.
func (r *idempotencyRepo) Release(_ context.Context, businessID uuid.UUID, key string) error {
	defer r.lock()()
	k := guardKey{businessID, key}
	rec, ok := r.store.guards[k]
	if !ok || rec.Status != shared.IdempotencyStatusProcessing {
		return nil
	}
	delete(r.store.guards, k)
	r.journal(func() { r.store.guards[k] = rec })
	return nil
}

func (r *idempotencyRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	defer r.lock()()
	var n int64
	for k, rec := range r.store.guards {
		if rec.IsExpired(now) {
			delete(r.store.guards, k)
			n++
		}
	}
	return n, nil
}
