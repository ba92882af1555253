package tender

import (
	"strings"

	"pos-checkout/internal/domain/money"
	"pos-checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingPaymentReference = errs.New("payment reference required")
	ErrMissingWalletProvider   = errs.New("digital wallet provider required")
	ErrInvalidTenderAmount     = errs.New("tender amount must be positive")
)

// Entry is one tender contribution toward a sale total.
type Entry struct {
	Method    Method
	Provider  string
	Amount    decimal.Decimal
	Reference string
}

func NewEntry(method Method, amount decimal.Decimal, reference, provider string) (Entry, error) {
	e := Entry{
		Method:    method,
		Provider:  strings.TrimSpace(provider),
		Amount:    money.Normalize(amount),
		Reference: strings.TrimSpace(reference),
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the entry in isolation, independent of any ledger state.
func (e Entry) Validate() error {
	if !e.Method.IsValid() {
		return errs.Wrapf(ErrUnknownTenderMethod, "method %q", string(e.Method))
	}
	if !e.Amount.IsPositive() {
		return errs.Wrapf(ErrInvalidTenderAmount, "got %s", e.Amount.String())
	}

	rule := e.Method.Rule()
	if rule.ReferenceRequired && strings.TrimSpace(e.Reference) == "" {
		return errs.Wrapf(ErrMissingPaymentReference, "method %s", e.Method)
	}
	if rule.ProviderRequired && strings.TrimSpace(e.Provider) == "" {
		return errs.Wrapf(ErrMissingWalletProvider, "method %s", e.Method)
	}
	return nil
}

func (e Entry) IsCash() bool {
	return e.Method == MethodCash
}
