package money

import (
	"pos-checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept on every money value.
const Scale = 2

var ErrNegativeAmount = errs.New("money cannot be negative")

var hundred = decimal.NewFromInt(100)

func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// ClampZero returns max(0, d).
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func NonNegative(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Zero, errs.Wrapf(ErrNegativeAmount, "got %s", d.String())
	}
	return Normalize(d), nil
}

// Percent returns base * pct / 100 normalised to Scale.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return Normalize(base.Mul(pct).Div(hundred))
}

func FromString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errs.Wrapf(err, "invalid money value %q", s)
	}
	return Normalize(d), nil
}

// MustParse is for literals in tests and fixtures.
func MustParse(s string) decimal.Decimal {
	d, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
