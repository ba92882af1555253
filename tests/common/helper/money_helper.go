//go:build unit || e2e

package helper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertMoney compares by value so "900" and "900.00" are equal.
func AssertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) bool {
	t.Helper()

	expected := decimal.RequireFromString(want)
	return assert.Truef(t, expected.Equal(got), "money mismatch: want %s, got %s %v", expected.String(), got.String(), msgAndArgs)
}

func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
