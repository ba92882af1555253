package sale

import (
	"time"

	"pos-checkout/internal/domain/tender"
	"pos-checkout/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvoiceNumberRequired = errs.New("invoice number required")

type Sale struct {
	id             uuid.UUID
	invoiceNumber  string
	businessID     uuid.UUID
	cashierID      uuid.UUID
	customerID     *uuid.UUID
	lines          []CartLine
	subtotal       decimal.Decimal
	discountAmount decimal.Decimal
	totalAmount    decimal.Decimal
	taxAmount      decimal.Decimal
	paidAmount     decimal.Decimal
	creditAmount   decimal.Decimal
	paymentStatus  tender.Status
	note           string
	createdAt      time.Time
}

// NewSale builds the durable record from a validated draft and its quote.
func NewSale(id uuid.UUID, invoiceNumber string, d Draft, q *Quote, now time.Time) (*Sale, error) {
	if invoiceNumber == "" {
		return nil, ErrInvoiceNumberRequired
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	lines := make([]CartLine, len(d.Lines))
	copy(lines, d.Lines)

	return &Sale{
		id:             id,
		invoiceNumber:  invoiceNumber,
		businessID:     d.BusinessID,
		cashierID:      d.CashierID,
		customerID:     d.CustomerID,
		lines:          lines,
		subtotal:       q.Subtotal,
		discountAmount: q.DiscountAmount,
		totalAmount:    q.TotalAmount,
		taxAmount:      q.TaxAmount,
		paidAmount:     q.TotalPaid,
		creditAmount:   q.Remaining,
		paymentStatus:  tender.DeriveStatus(q.TotalPaid, q.TotalAmount),
		note:           d.Note,
		createdAt:      now,
	}, nil
}

// Reconstruct rebuilds a stored sale without re-running checkout rules.
func Reconstruct(
	id uuid.UUID,
	invoiceNumber string,
	businessID, cashierID uuid.UUID,
	customerID *uuid.UUID,
	lines []CartLine,
	subtotal, discountAmount, totalAmount, taxAmount, paidAmount, creditAmount decimal.Decimal,
	status tender.Status,
	note string,
	createdAt time.Time,
) *Sale {
	return &Sale{
		id:             id,
		invoiceNumber:  invoiceNumber,
		businessID:     businessID,
		cashierID:      cashierID,
		customerID:     customerID,
		lines:          lines,
		subtotal:       subtotal,
		discountAmount: discountAmount,
		totalAmount:    totalAmount,
		taxAmount:      taxAmount,
		paidAmount:     paidAmount,
		creditAmount:   creditAmount,
		paymentStatus:  status,
		note:           note,
		createdAt:      createdAt,
	}
}

func (s *Sale) ID() uuid.UUID                   { return s.id }
func (s *Sale) InvoiceNumber() string           { return s.invoiceNumber }
func (s *Sale) BusinessID() uuid.UUID           { return s.businessID }
func (s *Sale) CashierID() uuid.UUID            { return s.cashierID }
func (s *Sale) CustomerID() *uuid.UUID          { return s.customerID }
func (s *Sale) Subtotal() decimal.Decimal       { return s.subtotal }
func (s *Sale) DiscountAmount() decimal.Decimal { return s.discountAmount }
func (s *Sale) TotalAmount() decimal.Decimal    { return s.totalAmount }
func (s *Sale) TaxAmount() decimal.Decimal      { return s.taxAmount }
func (s *Sale) PaidAmount() decimal.Decimal     { return s.paidAmount }
func (s *Sale) CreditAmount() decimal.Decimal   { return s.creditAmount }
func (s *Sale) PaymentStatus() tender.Status    { return s.paymentStatus }
func (s *Sale) Note() string                    { return s.note }
func (s *Sale) CreatedAt() time.Time            { return s.createdAt }

func (s *Sale) Lines() []CartLine {
	out := make([]CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

type Payment struct {
	ID        uuid.UUID
	SaleID    uuid.UUID
	Sequence  int
	Method    tender.Method
	Provider  string
	Amount    decimal.Decimal
	Reference string
	CreatedAt time.Time
}

// NewPayments turns ledger entries into payment records, one per tender, in tender order.
func NewPayments(saleID uuid.UUID, entries []tender.Entry, now time.Time) []*Payment {
	out := make([]*Payment, 0, len(entries))
	for i, e := range entries {
		out = append(out, &Payment{
			ID:        uuid.New(),
			SaleID:    saleID,
			Sequence:  i,
			Method:    e.Method,
			Provider:  e.Provider,
			Amount:    e.Amount,
			Reference: e.Reference,
			CreatedAt: now,
		})
	}
	return out
}

// StatusFromPayments re-derives the payment status of a stored sale.
func StatusFromPayments(total decimal.Decimal, payments []*Payment) tender.Status {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return tender.DeriveStatus(paid, total)
}
