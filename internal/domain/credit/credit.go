package credit

import (
	"fmt"

	"pos-checkout/internal/domain/money"
	"pos-checkout/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCreditRequiresCustomer = errs.New("partial payment requires a customer")
	ErrCreditLimitExceeded    = errs.New("credit limit exceeded")
	ErrAccountNotFound        = errs.New("credit account not found")
)

// LimitExceededError carries the figures shown to the cashier.
type LimitExceededError struct {
	CustomerID uuid.UUID
	Available  decimal.Decimal
	Requested  decimal.Decimal
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("credit limit exceeded: available %s, requested %s", e.Available.String(), e.Requested.String())
}

func (e *LimitExceededError) Is(target error) bool {
	return target == ErrCreditLimitExceeded
}

type Account struct {
	CustomerID         uuid.UUID
	CreditLimit        decimal.Decimal
	OutstandingBalance decimal.Decimal
}

func NewAccount(customerID uuid.UUID, limit, outstanding decimal.Decimal) (Account, error) {
	l, err := money.NonNegative(limit)
	if err != nil {
		return Account{}, errs.Wrap(err, "credit limit")
	}
	o, err := money.NonNegative(outstanding)
	if err != nil {
		return Account{}, errs.Wrap(err, "outstanding balance")
	}
	return Account{CustomerID: customerID, CreditLimit: l, OutstandingBalance: o}, nil
}

// Available is max(0, limit - outstanding). An account already over its limit has nothing available.
func (a Account) Available() decimal.Decimal {
	return money.ClampZero(a.CreditLimit.Sub(a.OutstandingBalance))
}

// Authorize decides whether remaining may be deferred to account. A nil account
// means the sale has no customer.
func Authorize(remaining decimal.Decimal, account *Account) error {
	if !remaining.IsPositive() {
		return nil
	}
	if account == nil {
		return errs.Wrapf(ErrCreditRequiresCustomer, "remaining %s", remaining.String())
	}

	available := account.Available()
	if remaining.GreaterThan(available) {
		return &LimitExceededError{
			CustomerID: account.CustomerID,
			Available:  available,
			Requested:  remaining,
		}
	}
	return nil
}
