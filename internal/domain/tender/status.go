package tender

import "github.com/shopspring/decimal"

type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

func (s Status) String() string {
	return string(s)
}

// DeriveStatus is the only source of a payment status; it is never stored independently
// of the amounts it is derived from.
func DeriveStatus(totalPaid, total decimal.Decimal) Status {
	switch {
	case totalPaid.GreaterThanOrEqual(total):
		return StatusPaid
	case totalPaid.IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}
