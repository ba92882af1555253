// Package memstore keeps the checkout collaborators in process memory. It backs
// STORE_BACKEND=memory and the use case tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"pos-checkout/internal/domain/credit"
	"pos-checkout/internal/domain/sale"
	"pos-checkout/internal/pkg/clock"
	"pos-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

type productKey struct {
	businessID uuid.UUID
	productID  uuid.UUID
}

type customerKey struct {
	businessID uuid.UUID
	customerID uuid.UUID
}

type guardKey struct {
	businessID uuid.UUID
	key        string
}

type sequenceKey struct {
	businessID uuid.UUID
	year       int
}

type outboxRow struct {
	event       shared.OutboxEvent
	publishedAt *time.Time
}

// Store serialises every unit of work behind one mutex. Writes made inside Within
// are journaled and undone in reverse order when the unit fails.
type Store struct {
	mu    sync.Mutex
	clock clock.Clock

	stock    map[productKey]int
	accounts map[customerKey]credit.Account
	sales    map[uuid.UUID]*sale.Sale
	payments map[uuid.UUID][]*sale.Payment
	guards   map[guardKey]shared.IdempotencyRecord
	outbox   []*outboxRow

	seqMu     sync.Mutex
	sequences map[sequenceKey]int64
}

func New(clk clock.Clock) *Store {
	return &Store{
		clock:     clk,
		stock:     make(map[productKey]int),
		accounts:  make(map[customerKey]credit.Account),
		sales:     make(map[uuid.UUID]*sale.Sale),
		payments:  make(map[uuid.UUID][]*sale.Payment),
		guards:    make(map[guardKey]shared.IdempotencyRecord),
		sequences: make(map[sequenceKey]int64),
	}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s}
	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &reads{store: s}
}

func (s *Store) Idempotency() shared.IdempotencyRepository {
	return &idempotencyRepo{store: s}
}

// SetStock seeds or overwrites the available quantity of a product.
func (s *Store) SetStock(businessID, productID uuid.UUID, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[productKey{businessID, productID}] = qty
}

// AdjustStock applies delta outside any unit of work, the way another terminal would.
func (s *Store) AdjustStock(businessID, productID uuid.UUID, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[productKey{businessID, productID}] += delta
}

func (s *Store) StockOf(businessID, productID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock[productKey{businessID, productID}]
}

func (s *Store) SetCreditAccount(businessID uuid.UUID, account credit.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[customerKey{businessID, account.CustomerID}] = account
}

func (s *Store) CreditAccountOf(businessID, customerID uuid.UUID) (credit.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[customerKey{businessID, customerID}]
	return a, ok
}

func (s *Store) SaleCount(businessID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sl := range s.sales {
		if sl.BusinessID() == businessID {
			n++
		}
	}
	return n
}

func (s *Store) Next(_ context.Context, businessID uuid.UUID, year int) (int64, error) {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	k := sequenceKey{businessID, year}
	s.sequences[k]++
	return s.sequences[k], nil
}
