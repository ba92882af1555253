package memstore

import (
	"context"

	"pos-checkout/internal/domain/sale"
	"pos-checkout/internal/infra"
	"pos-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memTx runs with Store.mu held.
type memTx struct {
	store *Store
	undo  []func()
}

func (t *memTx) journal(fn func()) {
	t.undo = append(t.undo, fn)
}

func (t *memTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *memTx) Stock() shared.StockRepository         { return &stockRepo{tx: t} }
func (t *memTx) Credit() shared.CreditRepository       { return &creditRepo{tx: t} }
func (t *memTx) Sales() shared.SaleRepository          { return &saleRepo{tx: t} }
func (t *memTx) Payments() shared.PaymentRepository    { return &paymentRepo{tx: t} }
func (t *memTx) Outbox() shared.OutboxRepository       { return &outboxRepo{tx: t} }
func (t *memTx) Reads() shared.CommandReads            { return &reads{store: t.store, locked: true} }
func (t *memTx) Idempotency() shared.IdempotencyRepository {
	return &idempotencyRepo{store: t.store, tx: t}
}

type stockRepo struct{ tx *memTx }

func (r *stockRepo) ConditionalDecrement(_ context.Context, businessID, productID uuid.UUID, qty int) (bool, error) {
	s := r.tx.store
	k := productKey{businessID, productID}
	available, ok := s.stock[k]
	if !ok || qty <= 0 || available < qty {
		return false, nil
	}
	s.stock[k] = available - qty
	r.tx.journal(func() { s.stock[k] += qty })
	return true, nil
}

type creditRepo struct{ tx *memTx }

func (r *creditRepo) ConditionalCharge(_ context.Context, businessID, customerID uuid.UUID, amount decimal.Decimal) (bool, error) {
	s := r.tx.store
	k := customerKey{businessID, customerID}
	account, ok := s.accounts[k]
	if !ok {
		return false, nil
	}
	next := account.OutstandingBalance.Add(amount)
	if next.GreaterThan(account.CreditLimit) {
		return false, nil
	}
	prev := account
	account.OutstandingBalance = next
	s.accounts[k] = account
	r.tx.journal(func() { s.accounts[k] = prev })
	return true, nil
}

type saleRepo struct{ tx *memTx }

func (r *saleRepo) Create(_ context.Context, sl *sale.Sale) error {
	s := r.tx.store
	if _, exists := s.sales[sl.ID()]; exists {
		return infra.WrapRepoErr("sale already exists", nil, infra.KindDuplicateKey)
	}
	for _, existing := range s.sales {
		if existing.BusinessID() == sl.BusinessID() && existing.InvoiceNumber() == sl.InvoiceNumber() {
			return infra.WrapRepoErr("invoice number already used", nil, infra.KindDuplicateKey)
		}
	}
	s.sales[sl.ID()] = sl
	r.tx.journal(func() { delete(s.sales, sl.ID()) })
	return nil
}

type paymentRepo struct{ tx *memTx }

func (r *paymentRepo) Create(_ context.Context, p *sale.Payment) error {
	s := r.tx.store
	if _, ok := s.sales[p.SaleID]; !ok {
		return infra.WrapRepoErr("payment references unknown sale", nil, infra.KindForeignKeyViolated)
	}
	prev := s.payments[p.SaleID]
	s.payments[p.SaleID] = append(append([]*sale.Payment(nil), prev...), p)
	r.tx.journal(func() {
		if prev == nil {
			delete(s.payments, p.SaleID)
			return
		}
		s.payments[p.SaleID] = prev
	})
	return nil
}

type outboxRepo struct{ tx *memTx }

func (r *outboxRepo) Enqueue(_ context.Context, ev shared.OutboxEvent) error {
	s := r.tx.store
	s.outbox = append(s.outbox, &outboxRow{event: ev})
	n := len(s.outbox)
	r.tx.journal(func() { s.outbox = s.outbox[:n-1] })
	return nil
}
