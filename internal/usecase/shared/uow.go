package shared

import (
	"context"
	"time"

	"pos-checkout/internal/domain/credit"
	"pos-checkout/internal/domain/sale"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Full transaction for the commit unit. An error rolls back every write made through tx.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
	// Idempotency: guard records claimed and released outside the commit transaction
	Idempotency() IdempotencyRepository
}

type Tx interface {
	Stock() StockRepository
	Credit() CreditRepository
	Sales() SaleRepository
	Payments() PaymentRepository
	Idempotency() IdempotencyRepository
	Outbox() OutboxRepository
	Reads() CommandReads
}

type CommandReads interface {
	AvailableStock(ctx context.Context, businessID, productID uuid.UUID) (int, error)
	CreditAccount(ctx context.Context, businessID, customerID uuid.UUID) (*credit.Account, error)
	IdempotencyByKey(ctx context.Context, businessID uuid.UUID, key string) (*IdempotencyRecord, error)
}

type StockRepository interface {
	// ConditionalDecrement subtracts qty only while available_qty >= qty. ok is false when the
	// condition no longer holds or the product is unknown.
	ConditionalDecrement(ctx context.Context, businessID, productID uuid.UUID, qty int) (ok bool, err error)
}

type CreditRepository interface {
	// ConditionalCharge adds amount to the outstanding balance only while the result stays within the limit.
	ConditionalCharge(ctx context.Context, businessID, customerID uuid.UUID, amount decimal.Decimal) (ok bool, err error)
}

type SaleRepository interface {
	Create(ctx context.Context, s *sale.Sale) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *sale.Payment) error
}

type IdempotencyRepository interface {
	// TryAcquire inserts a processing record, or takes over an expired one. acquired is false when
	// a live record already holds the key.
	TryAcquire(ctx context.Context, rec IdempotencyRecord) (acquired bool, err error)
	Get(ctx context.Context, businessID uuid.UUID, key string) (*IdempotencyRecord, error)
	Complete(ctx context.Context, businessID uuid.UUID, key string, saleID uuid.UUID) error
	Release(ctx context.Context, businessID uuid.UUID, key string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, ev OutboxEvent) error
}

// OutboxStore is the relay side of the outbox.
type OutboxStore interface {
	FetchPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// InvoiceSequence is the authoritative per-business invoice counter.
type InvoiceSequence interface {
	Next(ctx context.Context, businessID uuid.UUID, year int) (int64, error)
}

// ReplayCache short-circuits replays of completed keys before the durable record is read.
type ReplayCache interface {
	Get(ctx context.Context, businessID uuid.UUID, key string) (*ReplayEntry, error)
	Put(ctx context.Context, businessID uuid.UUID, key string, entry ReplayEntry) error
}
