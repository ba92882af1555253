package commands

import (
	"context"
	"encoding/json"
	"time"

	"pos-checkout/internal/domain/credit"
	"pos-checkout/internal/domain/sale"
	"pos-checkout/internal/domain/stock"
	"pos-checkout/internal/infra"
	"pos-checkout/internal/pkg/clock"
	"pos-checkout/internal/pkg/config"
	"pos-checkout/internal/pkg/errs"
	"pos-checkout/internal/pkg/logctx"
	"pos-checkout/internal/usecase/queries"
	"pos-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	// A conflicted commit re-validates and tries once more before the conflict is surfaced.
	maxConflictRetries = 1

	fingerprintKeyPrefix = "fp:"
)

type CommitSaleResult struct {
	Sale       *queries.SaleView
	Change     decimal.Decimal
	IsReplayed bool
}

type SaleCommands interface {
	// QuoteSale runs every pre-commit check without side effects.
	QuoteSale(ctx context.Context, draft sale.Draft) (*sale.Quote, error)
	// CommitSale is idempotent per (business, idempotencyKey). An empty key falls back to the
	// draft fingerprint for a short window.
	CommitSale(ctx context.Context, draft sale.Draft, idempotencyKey string) (*CommitSaleResult, error)
}

type saleCommandsImpl struct {
	uow      shared.UnitOfWork
	stock    *StockValidator
	invoices InvoiceNumberGenerator
	queries  queries.SaleQueries
	replay   shared.ReplayCache
	clock    clock.Clock
	cfg      config.CheckoutConfig
	flight   singleflight.Group
}

func NewSaleCommands(
	uow shared.UnitOfWork,
	invoices InvoiceNumberGenerator,
	saleQueries queries.SaleQueries,
	replay shared.ReplayCache,
	clk clock.Clock,
	cfg config.CheckoutConfig,
) SaleCommands {
	if replay == nil {
		replay = noopReplayCache{}
	}
	return &saleCommandsImpl{
		uow:      uow,
		stock:    NewStockValidator(uow.CommandReads()),
		invoices: invoices,
		queries:  saleQueries,
		replay:   replay,
		clock:    clk,
		cfg:      cfg,
	}
}

func (u *saleCommandsImpl) QuoteSale(ctx context.Context, draft sale.Draft) (*sale.Quote, error) {
	return u.validate(ctx, draft)
}

// flightOutcome carries the request hash so callers that joined an in-flight commit
// can tell whether they sent the same draft.
type flightOutcome struct {
	result      *CommitSaleResult
	requestHash string
}

func (u *saleCommandsImpl) CommitSale(ctx context.Context, draft sale.Draft, idempotencyKey string) (*CommitSaleResult, error) {
	if err := draft.Validate(); err != nil {
		return nil, &sale.CommitError{State: sale.StateRejected, Err: err}
	}

	requestHash, err := draft.Fingerprint()
	if err != nil {
		return nil, err
	}
	key, ttl := idempotencyKey, u.cfg.IdempotencyTTL
	if key == "" {
		key = fingerprintKeyPrefix + draft.CashierID.String() + ":" + requestHash
		ttl = u.cfg.FingerprintWindow
	}

	// Duplicate presses join the leader's run, so it must outlive the leader's client.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.cfg.CommitTimeout)
	defer cancel()

	leader := false
	v, err, _ := u.flight.Do(draft.BusinessID.String()+"/"+key, func() (any, error) {
		leader = true
		res, err := u.guardedCommit(ctx, draft, key, requestHash, ttl)
		return &flightOutcome{result: res, requestHash: requestHash}, err
	})
	outcome, _ := v.(*flightOutcome)

	if !leader && outcome != nil && outcome.requestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyReused
	}
	if err != nil {
		if errs.Is(err, context.DeadlineExceeded) {
			return nil, errs.Mark(err, errs.ErrCommitTimeout)
		}
		return nil, err
	}
	if leader {
		return outcome.result, nil
	}

	replayed := *outcome.result
	replayed.IsReplayed = true
	return &replayed, nil
}

func (u *saleCommandsImpl) guardedCommit(
	ctx context.Context,
	draft sale.Draft,
	key, requestHash string,
	ttl time.Duration,
) (*CommitSaleResult, error) {
	businessID := draft.BusinessID

	if res, err := u.replayFromCache(ctx, businessID, key, requestHash); res != nil || err != nil {
		return res, err
	}

	acquired, err := u.uow.Idempotency().TryAcquire(ctx, shared.IdempotencyRecord{
		BusinessID:  businessID,
		Key:         key,
		RequestHash: requestHash,
		ExpiresAt:   u.clock.Now().Add(ttl),
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if !acquired {
		return u.replayExisting(ctx, businessID, key, requestHash)
	}

	res, err := u.commitWithRetry(ctx, draft, key)
	if err != nil {
		if relErr := u.uow.Idempotency().Release(context.WithoutCancel(ctx), businessID, key); relErr != nil {
			logctx.From(ctx).Error("failed to release idempotency key", "business_id", businessID, "key", key, "error", relErr.Error())
		}
		return nil, err
	}

	u.remember(ctx, businessID, key, shared.ReplayEntry{SaleID: res.Sale.ID, RequestHash: requestHash})
	return res, nil
}

func (u *saleCommandsImpl) replayFromCache(ctx context.Context, businessID uuid.UUID, key, requestHash string) (*CommitSaleResult, error) {
	entry, err := u.replay.Get(ctx, businessID, key)
	if err != nil {
		logctx.From(ctx).Warn("replay cache read failed", "error", err.Error())
		return nil, nil
	}
	if entry == nil {
		return nil, nil
	}
	if entry.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyReused
	}
	res, err := u.loadReplay(ctx, businessID, entry.SaleID)
	if err != nil {
		// the durable record decides
		logctx.From(ctx).Warn("cached replay could not be loaded", "sale_id", entry.SaleID, "error", err.Error())
		return nil, nil
	}
	return res, nil
}

func (u *saleCommandsImpl) replayExisting(ctx context.Context, businessID uuid.UUID, key, requestHash string) (*CommitSaleResult, error) {
	existing, err := u.uow.Idempotency().Get(ctx, businessID, key)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// released by a failed attempt between our insert and read
			return nil, errs.ErrIdempotencyInProgress
		}
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if existing.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyReused
	}

	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		if existing.ResultSaleID == nil {
			return nil, errs.Wrap(errs.ErrIdempotencyCheckFailed, "completed key missing result sale")
		}
		res, err := u.loadReplay(ctx, businessID, *existing.ResultSaleID)
		if err != nil {
			return nil, err
		}
		u.remember(ctx, businessID, key, shared.ReplayEntry{SaleID: res.Sale.ID, RequestHash: requestHash})
		return res, nil

	case shared.IdempotencyStatusProcessing:
		return nil, errs.ErrIdempotencyInProgress

	default:
		return nil, errs.Wrapf(errs.ErrIdempotencyCheckFailed, "invalid idempotency key status %q", existing.Status)
	}
}

func (u *saleCommandsImpl) loadReplay(ctx context.Context, businessID, saleID uuid.UUID) (*CommitSaleResult, error) {
	view, err := u.queries.GetByID(ctx, businessID, saleID)
	if err != nil {
		return nil, err
	}
	logctx.From(ctx).Info("replaying committed sale", "sale_id", saleID, "invoice_number", view.InvoiceNumber)
	return &CommitSaleResult{Sale: view, Change: view.ChangeAmount, IsReplayed: true}, nil
}

func (u *saleCommandsImpl) remember(ctx context.Context, businessID uuid.UUID, key string, entry shared.ReplayEntry) {
	if err := u.replay.Put(ctx, businessID, key, entry); err != nil {
		logctx.From(ctx).Warn("replay cache write failed", "error", err.Error())
	}
}

func (u *saleCommandsImpl) commitWithRetry(ctx context.Context, draft sale.Draft, key string) (*CommitSaleResult, error) {
	flow := sale.NewFlow()

	for attempt := 0; ; attempt++ {
		u.transition(ctx, flow, sale.StateValidating)
		quote, err := u.validate(ctx, draft)
		if err != nil {
			u.transition(ctx, flow, sale.StateRejected)
			return nil, &sale.CommitError{State: sale.StateRejected, Err: err}
		}

		u.transition(ctx, flow, sale.StateCommitting)
		invoiceNumber := u.invoices.Next(ctx, draft.BusinessID)

		res, err := u.commitUnit(ctx, draft, quote, invoiceNumber, key)
		if err == nil {
			u.transition(ctx, flow, sale.StateCommitted)
			logctx.From(ctx).Info("sale committed",
				"sale_id", res.Sale.ID,
				"invoice_number", invoiceNumber,
				"payment_status", res.Sale.PaymentStatus,
				"attempts", attempt+1)
			return res, nil
		}

		if !errs.Is(err, stock.ErrConcurrentStockConflict) {
			u.transition(ctx, flow, sale.StateRejected)
			return nil, &sale.CommitError{State: sale.StateRejected, Err: err}
		}

		u.transition(ctx, flow, sale.StateConflicted)
		if attempt >= maxConflictRetries {
			return nil, &sale.CommitError{State: sale.StateConflicted, Err: err}
		}
		logctx.From(ctx).Warn("stock changed before commit, revalidating",
			"business_id", draft.BusinessID,
			"invoice_number", invoiceNumber,
			"error", err.Error())
	}
}

func (u *saleCommandsImpl) transition(ctx context.Context, flow *sale.Flow, next sale.State) {
	from := flow.State()
	if err := flow.Advance(next); err != nil {
		logctx.From(ctx).Error("illegal sale state transition", "error", err.Error())
		return
	}
	logctx.From(ctx).Debug("sale state", "from", from.String(), "to", next.String())
}

// validate is read-only: discount bounds, ledger consistency, stock pre-check, credit.
func (u *saleCommandsImpl) validate(ctx context.Context, draft sale.Draft) (*sale.Quote, error) {
	quote, err := sale.Evaluate(draft)
	if err != nil {
		return nil, err
	}

	if err := u.stock.Validate(ctx, draft.BusinessID, sale.StockRequests(draft.Lines)); err != nil {
		return nil, err
	}

	if err := u.authorizeCredit(ctx, u.uow.CommandReads(), draft, quote.Remaining); err != nil {
		return nil, err
	}
	return quote, nil
}

func (u *saleCommandsImpl) authorizeCredit(ctx context.Context, reads shared.CommandReads, draft sale.Draft, remaining decimal.Decimal) error {
	if !remaining.IsPositive() || draft.CustomerID == nil {
		return credit.Authorize(remaining, nil)
	}

	account, err := u.creditAccount(ctx, reads, draft.BusinessID, *draft.CustomerID)
	if err != nil {
		return err
	}
	return credit.Authorize(remaining, account)
}

// A customer without a credit account has a zero limit.
func (u *saleCommandsImpl) creditAccount(ctx context.Context, reads shared.CommandReads, businessID, customerID uuid.UUID) (*credit.Account, error) {
	account, err := reads.CreditAccount(ctx, businessID, customerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &credit.Account{CustomerID: customerID, CreditLimit: decimal.Zero, OutstandingBalance: decimal.Zero}, nil
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return account, nil
}

// commitUnit runs the writes as one unit. It is detached from caller cancellation and
// bounded by the commit timeout instead.
func (u *saleCommandsImpl) commitUnit(
	ctx context.Context,
	draft sale.Draft,
	quote *sale.Quote,
	invoiceNumber, key string,
) (*CommitSaleResult, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.cfg.CommitTimeout)
	defer cancel()

	now := u.clock.Now()
	entity, err := sale.NewSale(uuid.New(), invoiceNumber, draft, quote, now)
	if err != nil {
		return nil, err
	}
	payments := sale.NewPayments(entity.ID(), quote.Tenders, now)

	event, err := newSaleCommittedEvent(entity, now)
	if err != nil {
		return nil, err
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := decrementStock(ctx, tx, draft.BusinessID, sale.StockRequests(draft.Lines)); err != nil {
			return err
		}

		if quote.RequiresCredit() {
			if err := u.chargeCredit(ctx, tx, draft, quote.Remaining); err != nil {
				return err
			}
		}

		if err := tx.Sales().Create(ctx, entity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, p := range payments {
			if err := tx.Payments().Create(ctx, p); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		if err := tx.Outbox().Enqueue(ctx, event); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Idempotency().Complete(ctx, draft.BusinessID, key, entity.ID()); err != nil {
			return errs.Mark(err, errs.ErrIdempotencyCheckFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CommitSaleResult{
		Sale:   queries.NewSaleView(entity, payments),
		Change: quote.Change,
	}, nil
}

// decrementStock takes rows in product id order so concurrent units cannot deadlock.
func decrementStock(ctx context.Context, tx shared.Tx, businessID uuid.UUID, requests []stock.Request) error {
	for _, r := range stock.LockOrder(requests) {
		ok, err := tx.Stock().ConditionalDecrement(ctx, businessID, r.ProductID, r.Quantity)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return &stock.ConflictError{ProductID: r.ProductID, Requested: r.Quantity}
		}
	}
	return nil
}

// chargeCredit is the at-commit credit re-check. On failure the account is re-read inside
// the unit so the error reports what is available now.
func (u *saleCommandsImpl) chargeCredit(ctx context.Context, tx shared.Tx, draft sale.Draft, remaining decimal.Decimal) error {
	if draft.CustomerID == nil {
		return credit.Authorize(remaining, nil)
	}
	customerID := *draft.CustomerID

	ok, err := tx.Credit().ConditionalCharge(ctx, draft.BusinessID, customerID, remaining)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if ok {
		return nil
	}

	account, err := u.creditAccount(ctx, tx.Reads(), draft.BusinessID, customerID)
	if err != nil {
		return err
	}
	logctx.From(ctx).Warn("credit changed before commit",
		"customer_id", customerID,
		"available", account.Available().String(),
		"requested", remaining.String())
	return &credit.LimitExceededError{
		CustomerID: customerID,
		Available:  account.Available(),
		Requested:  remaining,
	}
}

type saleCommittedPayload struct {
	SaleID        uuid.UUID       `json:"sale_id"`
	BusinessID    uuid.UUID       `json:"business_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
	PaymentStatus string          `json:"payment_status"`
	Lines         []eventLine     `json:"lines"`
	CommittedAt   time.Time       `json:"committed_at"`
}

type eventLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func newSaleCommittedEvent(s *sale.Sale, now time.Time) (shared.OutboxEvent, error) {
	requests := sale.StockRequests(s.Lines())
	lines := make([]eventLine, len(requests))
	for i, r := range requests {
		lines[i] = eventLine{ProductID: r.ProductID, Quantity: r.Quantity}
	}

	payload, err := json.Marshal(saleCommittedPayload{
		SaleID:        s.ID(),
		BusinessID:    s.BusinessID(),
		InvoiceNumber: s.InvoiceNumber(),
		CustomerID:    s.CustomerID(),
		TotalAmount:   s.TotalAmount(),
		PaidAmount:    s.PaidAmount(),
		CreditAmount:  s.CreditAmount(),
		PaymentStatus: s.PaymentStatus().String(),
		Lines:         lines,
		CommittedAt:   now,
	})
	if err != nil {
		return shared.OutboxEvent{}, errs.Wrap(err, "marshal sale committed event")
	}
	return shared.OutboxEvent{
		ID:          uuid.New(),
		Kind:        shared.EventSaleCommitted,
		BusinessID:  s.BusinessID(),
		AggregateID: s.ID(),
		Payload:     payload,
		CreatedAt:   now,
	}, nil
}

type noopReplayCache struct{}

func (noopReplayCache) Get(context.Context, uuid.UUID, string) (*shared.ReplayEntry, error) {
	return nil, nil
}

func (noopReplayCache) Put(context.Context, uuid.UUID, string, shared.ReplayEntry) error {
	return nil
}
