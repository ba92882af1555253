package tender

import (
	"pos-checkout/internal/domain/money"
	"pos-checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrOverpaymentNotAllowed = errs.New("non-cash tender exceeds remaining balance")
	ErrTenderIndexOutOfRange = errs.New("tender index out of range")
)

// Ledger accumulates tenders against a fixed total. It is not safe for concurrent use;
// each checkout attempt owns its ledger.
type Ledger struct {
	total   decimal.Decimal
	entries []Entry
	paid    decimal.Decimal
}

func NewLedger(total decimal.Decimal) *Ledger {
	return &Ledger{
		total: money.Normalize(money.ClampZero(total)),
		paid:  decimal.Zero,
	}
}

// Replay builds a ledger by adding entries in order, stopping at the first rejection.
func Replay(total decimal.Decimal, entries []Entry) (*Ledger, error) {
	l := NewLedger(total)
	for i, e := range entries {
		if err := l.Add(e); err != nil {
			return nil, errs.Wrapf(err, "tender %d", i)
		}
	}
	return l, nil
}

// Add rejects the entry without mutating the ledger when it is invalid.
func (l *Ledger) Add(e Entry) error {
	e.Amount = money.Normalize(e.Amount)
	if err := e.Validate(); err != nil {
		return err
	}

	if !e.Method.Rule().MayOverpay {
		remaining := l.Remaining()
		if e.Amount.GreaterThan(remaining) {
			return errs.Wrapf(ErrOverpaymentNotAllowed, "%s tender %s exceeds remaining %s", e.Method, e.Amount.String(), remaining.String())
		}
	}

	l.entries = append(l.entries, e)
	l.recompute()
	return nil
}

// Remove is always legal for an existing index.
func (l *Ledger) Remove(index int) error {
	if index < 0 || index >= len(l.entries) {
		return errs.Wrapf(ErrTenderIndexOutOfRange, "index %d, entries %d", index, len(l.entries))
	}
	l.entries = append(l.entries[:index:index], l.entries[index+1:]...)
	l.recompute()
	return nil
}

func (l *Ledger) recompute() {
	paid := decimal.Zero
	for _, e := range l.entries {
		paid = paid.Add(e.Amount)
	}
	l.paid = money.Normalize(paid)
}

func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

func (l *Ledger) Total() decimal.Decimal {
	return l.total
}

func (l *Ledger) TotalPaid() decimal.Decimal {
	return l.paid
}

// Remaining is max(0, total - totalPaid).
func (l *Ledger) Remaining() decimal.Decimal {
	return money.ClampZero(l.total.Sub(l.paid))
}

// Change is max(0, totalPaid - total).
func (l *Ledger) Change() decimal.Decimal {
	return money.ClampZero(l.paid.Sub(l.total))
}

func (l *Ledger) NonCashPaid() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range l.entries {
		if !e.IsCash() {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

func (l *Ledger) Status() Status {
	return DeriveStatus(l.paid, l.total)
}
