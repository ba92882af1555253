package sale

import (
	"pos-checkout/internal/domain/discount"
	"pos-checkout/internal/domain/tender"

	"github.com/shopspring/decimal"
)

// Quote holds every value derived from a draft before anything is committed.
type Quote struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalPaid      decimal.Decimal
	Remaining      decimal.Decimal
	Change         decimal.Decimal
	PaymentStatus  tender.Status
	Tenders        []tender.Entry
}

func (q Quote) RequiresCredit() bool {
	return q.Remaining.IsPositive()
}

// Evaluate runs the discount engine and the tender ledger over d. It is pure:
// stock and credit checks need collaborators and are applied by the caller.
func Evaluate(d Draft) (*Quote, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	subtotal := d.Subtotal()
	discountAmount, total, err := discount.Apply(subtotal, d.Discount)
	if err != nil {
		return nil, err
	}

	ledger, err := tender.Replay(total, d.Tenders)
	if err != nil {
		return nil, err
	}

	return &Quote{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TotalAmount:    total,
		TaxAmount:      d.TaxAmount,
		TotalPaid:      ledger.TotalPaid(),
		Remaining:      ledger.Remaining(),
		Change:         ledger.Change(),
		PaymentStatus:  ledger.Status(),
		Tenders:        ledger.Entries(),
	}, nil
}
