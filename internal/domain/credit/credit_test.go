//go:build unit

package credit_test

import (
	"testing"

	"pos-checkout/internal/domain/credit"
	"pos-checkout/internal/domain/money"
	"pos-checkout/internal/pkg/errs"
	"pos-checkout/tests/common/helper"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func account(t *testing.T, limit, outstanding string) *credit.Account {
	t.Helper()
	a, err := credit.NewAccount(uuid.New(), helper.Money(limit), helper.Money(outstanding))
	require.NoError(t, err)
	return &a
}

func TestAuthorize(t *testing.T) {
	t.Run("within available credit", func(t *testing.T) {
		a := account(t, "5000", "1000")

		err := credit.Authorize(helper.Money("1200"), a)

		assert.NoError(t, err)
	})

	t.Run("exactly the available credit", func(t *testing.T) {
		a := account(t, "5000", "3800")

		assert.NoError(t, credit.Authorize(helper.Money("1200"), a))
	})

	t.Run("over the limit reports available and requested", func(t *testing.T) {
		a := account(t, "5000", "4500")

		err := credit.Authorize(helper.Money("1200"), a)

		require.Error(t, err)
		assert.True(t, errs.Is(err, credit.ErrCreditLimitExceeded))
		var limitErr *credit.LimitExceededError
		require.True(t, errs.As(err, &limitErr))
		helper.AssertMoney(t, "500", limitErr.Available)
		helper.AssertMoney(t, "1200", limitErr.Requested)
		assert.Equal(t, a.CustomerID, limitErr.CustomerID)
	})

	t.Run("outstanding above limit leaves nothing available", func(t *testing.T) {
		a := account(t, "1000", "1500")

		helper.AssertMoney(t, "0", a.Available())
		err := credit.Authorize(helper.Money("0.01"), a)

		var limitErr *credit.LimitExceededError
		require.True(t, errs.As(err, &limitErr))
		helper.AssertMoney(t, "0", limitErr.Available)
	})

	t.Run("remaining without a customer", func(t *testing.T) {
		err := credit.Authorize(helper.Money("10"), nil)

		assert.True(t, errs.Is(err, credit.ErrCreditRequiresCustomer))
	})

	t.Run("nothing remaining needs no account", func(t *testing.T) {
		assert.NoError(t, credit.Authorize(decimal.Zero, nil))
	})
}

func TestNewAccount(t *testing.T) {
	_, err := credit.NewAccount(uuid.New(), helper.Money("-1"), helper.Money("0"))
	assert.True(t, errs.Is(err, money.ErrNegativeAmount))

	_, err = credit.NewAccount(uuid.New(), helper.Money("10"), helper.Money("-0.01"))
	assert.True(t, errs.Is(err, money.ErrNegativeAmount))
}
