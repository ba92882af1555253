package memstore

import (
	"context"
	"sort"
	"time"

	"pos-checkout/internal/domain/sale"
	"pos-checkout/internal/infra"
	"pos-checkout/internal/usecase/queries"

	"github.com/google/uuid"
)

// SaleReadStore serves the query side from the same Store.
type SaleReadStore struct {
	store *Store
}

func NewSaleReadStore(store *Store) *SaleReadStore {
	return &SaleReadStore{store: store}
}

func (r *SaleReadStore) FindByID(_ context.Context, businessID, id uuid.UUID) (*queries.SaleView, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sl, ok := r.store.sales[id]
	if !ok || sl.BusinessID() != businessID {
		return nil, infra.WrapRepoErr("sale not found", nil, infra.KindNotFound)
	}
	return queries.NewSaleView(sl, r.store.payments[id]), nil
}

func (r *SaleReadStore) FindByBusinessFirstPage(_ context.Context, businessID uuid.UUID, limit int32) ([]*queries.SaleListItem, error) {
	return r.page(businessID, nil, uuid.Nil, limit), nil
}

func (r *SaleReadStore) FindByBusinessKeyset(_ context.Context, businessID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.SaleListItem, error) {
	return r.page(businessID, &lastCreatedAt, lastID, limit), nil
}

func (r *SaleReadStore) page(businessID uuid.UUID, afterAt *time.Time, afterID uuid.UUID, limit int32) []*queries.SaleListItem {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []*sale.Sale
	for _, sl := range r.store.sales {
		if sl.BusinessID() != businessID {
			continue
		}
		if afterAt != nil && !before(sl, *afterAt, afterID) {
			continue
		}
		matched = append(matched, sl)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().After(b.CreatedAt())
		}
		return a.ID().String() > b.ID().String()
	})
	if int(limit) < len(matched) {
		matched = matched[:limit]
	}

	items := make([]*queries.SaleListItem, len(matched))
	for i, sl := range matched {
		items[i] = &queries.SaleListItem{
			ID:            sl.ID(),
			InvoiceNumber: sl.InvoiceNumber(),
			CustomerID:    sl.CustomerID(),
			TotalAmount:   sl.TotalAmount(),
			PaidAmount:    sl.PaidAmount(),
			PaymentStatus: sl.PaymentStatus().String(),
			CreatedAt:     sl.CreatedAt(),
		}
	}
	return items
}

// before reports whether sl sorts after the cursor row in newest-first order.
func before(sl *sale.Sale, at time.Time, id uuid.UUID) bool {
	created := sl.CreatedAt().Truncate(time.Microsecond)
	at = at.Truncate(time.Microsecond)
	if !created.Equal(at) {
		return created.Before(at)
	}
	return sl.ID().String() < id.String()
}
