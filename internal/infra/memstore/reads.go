package memstore

import (
	"context"

	"pos-checkout/internal/domain/credit"
	"pos-checkout/internal/infra"
	"pos-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

// reads with locked set is used from inside Within, where the store mutex is already held.
type reads struct {
	store  *Store
	locked bool
}

func (r *reads) lock() func() {
	if r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *reads) AvailableStock(_ context.Context, businessID, productID uuid.UUID) (int, error) {
	defer r.lock()()
	qty, ok := r.store.stock[productKey{businessID, productID}]
	if !ok {
		return 0, infra.WrapRepoErr("product stock not found", nil, infra.KindNotFound)
	}
	return qty, nil
}

func (r *reads) CreditAccount(_ context.Context, businessID, customerID uuid.UUID) (*credit.Account, error) {
	defer r.lock()()
	a, ok := r.store.accounts[customerKey{businessID, customerID}]
	if !ok {
		return nil, infra.WrapRepoErr("credit account not found", nil, infra.KindNotFound)
	}
	return &a, nil
}

func (r *reads) IdempotencyByKey(_ context.Context, businessID uuid.UUID, key string) (*shared.IdempotencyRecord, error) {
	defer r.lock()()
	rec, ok := r.store.guards[guardKey{businessID, key}]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return &rec, nil
}
