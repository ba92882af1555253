package discount

import (
	"strings"

	"pos-checkout/internal/domain/money"
	"pos-checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDiscount = errs.New("invalid discount")
	ErrUnknownKind     = errs.Mark(errs.New("unknown discount kind"), ErrInvalidDiscount)
)

var maxPercent = decimal.NewFromInt(100)

type Kind string

const (
	KindPercentage Kind = "percentage"
	KindFixed      Kind = "fixed"
)

func (k Kind) String() string {
	return string(k)
}

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPercentage:
		return KindPercentage, nil
	case KindFixed:
		return KindFixed, nil
	default:
		return "", errs.Wrapf(ErrUnknownKind, "kind %q", s)
	}
}

// Config is a discount requested for one checkout. The zero value is not valid;
// a sale without a discount carries a nil *Config.
type Config struct {
	kind  Kind
	value decimal.Decimal
}

func NewPercentage(percent decimal.Decimal) (Config, error) {
	if percent.IsNegative() || percent.GreaterThan(maxPercent) {
		return Config{}, errs.Wrapf(ErrInvalidDiscount, "percentage must be between 0 and 100, got %s", percent.String())
	}
	return Config{kind: KindPercentage, value: percent}, nil
}

// NewFixed checks the lower bound only; the upper bound depends on the subtotal
// and is enforced by Amount.
func NewFixed(amount decimal.Decimal) (Config, error) {
	if amount.IsNegative() {
		return Config{}, errs.Wrapf(ErrInvalidDiscount, "fixed discount cannot be negative, got %s", amount.String())
	}
	return Config{kind: KindFixed, value: money.Normalize(amount)}, nil
}

func New(kind string, value decimal.Decimal) (Config, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Config{}, err
	}
	if k == KindPercentage {
		return NewPercentage(value)
	}
	return NewFixed(value)
}

func (c Config) Kind() Kind             { return c.kind }
func (c Config) Value() decimal.Decimal { return c.value }
func (c Config) IsPercentage() bool     { return c.kind == KindPercentage }
func (c Config) IsFixed() bool          { return c.kind == KindFixed }

// Amount computes the discount for subtotal. It has no side effects.
func (c Config) Amount(subtotal decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.IsNegative() {
		return decimal.Zero, errs.Wrapf(ErrInvalidDiscount, "subtotal cannot be negative, got %s", subtotal.String())
	}

	switch c.kind {
	case KindPercentage:
		if c.value.IsNegative() || c.value.GreaterThan(maxPercent) {
			return decimal.Zero, errs.Wrapf(ErrInvalidDiscount, "percentage must be between 0 and 100, got %s", c.value.String())
		}
		return money.Percent(subtotal, c.value), nil
	case KindFixed:
		if c.value.IsNegative() {
			return decimal.Zero, errs.Wrapf(ErrInvalidDiscount, "fixed discount cannot be negative, got %s", c.value.String())
		}
		if c.value.GreaterThan(subtotal) {
			return decimal.Zero, errs.Wrapf(ErrInvalidDiscount, "fixed discount %s exceeds subtotal %s", c.value.String(), subtotal.String())
		}
		return c.value, nil
	default:
		return decimal.Zero, errs.Wrapf(ErrUnknownKind, "kind %q", string(c.kind))
	}
}

// Total is max(0, subtotal - discountAmount).
func Total(subtotal, discountAmount decimal.Decimal) decimal.Decimal {
	return money.Normalize(money.ClampZero(subtotal.Sub(discountAmount)))
}

// Apply returns the discount amount and the resulting total. A nil config means no discount.
func Apply(subtotal decimal.Decimal, cfg *Config) (amount, total decimal.Decimal, err error) {
	if cfg == nil {
		if subtotal.IsNegative() {
			return decimal.Zero, decimal.Zero, errs.Wrapf(ErrInvalidDiscount, "subtotal cannot be negative, got %s", subtotal.String())
		}
		return decimal.Zero, money.Normalize(subtotal), nil
	}

	amount, err = cfg.Amount(subtotal)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return amount, Total(subtotal, amount), nil
}
