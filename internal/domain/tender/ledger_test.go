//go:build unit

package tender_test

import (
	"testing"

	"pos-checkout/internal/domain/tender"
	"pos-checkout/internal/pkg/errs"
	"pos-checkout/tests/common/helper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(method tender.Method, amount, reference, provider string) tender.Entry {
	return tender.Entry{Method: method, Amount: helper.Money(amount), Reference: reference, Provider: provider}
}

// exactly one of change and remaining may be non-zero
func assertBalanced(t *testing.T, l *tender.Ledger) {
	t.Helper()
	assert.False(t, l.Change().IsPositive() && l.Remaining().IsPositive(), "change %s and remaining %s both positive", l.Change(), l.Remaining())
	assert.True(t, l.NonCashPaid().LessThanOrEqual(l.Total()), "non-cash %s exceeds total %s", l.NonCashPaid(), l.Total())
}

func TestLedger(t *testing.T) {
	t.Run("cash overpayment produces change", func(t *testing.T) {
		l := tender.NewLedger(helper.Money("900"))

		require.NoError(t, l.Add(entry(tender.MethodCash, "1000", "", "")))

		helper.AssertMoney(t, "1000", l.TotalPaid())
		helper.AssertMoney(t, "100", l.Change())
		helper.AssertMoney(t, "0", l.Remaining())
		assert.Equal(t, tender.StatusPaid, l.Status())
		assertBalanced(t, l)
	})

	t.Run("digital wallet with reference pays exactly", func(t *testing.T) {
		l := tender.NewLedger(helper.Money("450"))

		require.NoError(t, l.Add(entry(tender.MethodDigitalWallet, "450", "TXN123", "esewa")))

		assert.Equal(t, tender.StatusPaid, l.Status())
		helper.AssertMoney(t, "0", l.Change())
		helper.AssertMoney(t, "0", l.Remaining())
	})

	t.Run("partial cash leaves remaining", func(t *testing.T) {
		l := tender.NewLedger(helper.Money("2000"))

		require.NoError(t, l.Add(entry(tender.MethodCash, "800", "", "")))

		helper.AssertMoney(t, "1200", l.Remaining())
		assert.Equal(t, tender.StatusPartial, l.Status())
		assertBalanced(t, l)
	})

	t.Run("mixed tenders", func(t *testing.T) {
		l := tender.NewLedger(helper.Money("100"))

		require.NoError(t, l.Add(entry(tender.MethodCard, "30", "", "")))
		require.NoError(t, l.Add(entry(tender.MethodBankTransfer, "50", "BT-9", "")))
		require.NoError(t, l.Add(entry(tender.MethodCash, "40", "", "")))

		helper.AssertMoney(t, "120", l.TotalPaid())
		helper.AssertMoney(t, "20", l.Change())
		assert.Equal(t, 3, l.Len())
		assertBalanced(t, l)
	})

	t.Run("rejections leave the ledger untouched", func(t *testing.T) {
		cases := []struct {
			name  string
			prior []tender.Entry
			add   tender.Entry
			errIs error
		}{
			{
				name:  "wallet without reference",
				add:   entry(tender.MethodDigitalWallet, "10", "", "esewa"),
				errIs: tender.ErrMissingPaymentReference,
			},
			{
				name:  "wallet with blank reference",
				add:   entry(tender.MethodDigitalWallet, "10", "   ", "esewa"),
				errIs: tender.ErrMissingPaymentReference,
			},
			{
				name:  "bank transfer without reference",
				add:   entry(tender.MethodBankTransfer, "10", "", ""),
				errIs: tender.ErrMissingPaymentReference,
			},
			{
				name:  "wallet without provider",
				add:   entry(tender.MethodDigitalWallet, "10", "REF", ""),
				errIs: tender.ErrMissingWalletProvider,
			},
			{
				name:  "card above remaining",
				add:   entry(tender.MethodCard, "100.01", "", ""),
				errIs: tender.ErrOverpaymentNotAllowed,
			},
			{
				name:  "card after cash covered the total",
				prior: []tender.Entry{entry(tender.MethodCash, "100", "", "")},
				add:   entry(tender.MethodCard, "1", "", ""),
				errIs: tender.ErrOverpaymentNotAllowed,
			},
			{
				name:  "zero amount",
				add:   entry(tender.MethodCash, "0", "", ""),
				errIs: tender.ErrInvalidTenderAmount,
			},
			{
				name:  "negative amount",
				add:   entry(tender.MethodCash, "-5", "", ""),
				errIs: tender.ErrInvalidTenderAmount,
			},
			{
				name:  "unknown method",
				add:   entry(tender.Method("cheque"), "5", "", ""),
				errIs: tender.ErrUnknownTenderMethod,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				l := tender.NewLedger(helper.Money("100"))
				for _, p := range tc.prior {
					require.NoError(t, l.Add(p))
				}
				before := l.Entries()

				err := l.Add(tc.add)

				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.errIs), "expected %v, got %v", tc.errIs, err)
				assert.Equal(t, before, l.Entries())
			})
		}
	})

	t.Run("card reference is optional", func(t *testing.T) {
		l := tender.NewLedger(helper.Money("10"))
		require.NoError(t, l.Add(entry(tender.MethodCard, "10", "", "")))
		require.NoError(t, tender.NewLedger(helper.Money("10")).Add(entry(tender.MethodCard, "10", "AUTH-1", "")))
	})

	t.Run("remove recomputes derived values", func(t *testing.T) {
		l := tender.NewLedger(helper.Money("100"))
		require.NoError(t, l.Add(entry(tender.MethodCash, "150", "", "")))
		require.NoError(t, l.Remove(0))

		helper.AssertMoney(t, "0", l.TotalPaid())
		helper.AssertMoney(t, "100", l.Remaining())
		helper.AssertMoney(t, "0", l.Change())
		assert.Equal(t, tender.StatusUnpaid, l.Status())
	})

	t.Run("remove keeps order of the rest", func(t *testing.T) {
		l := tender.NewLedger(helper.Money("100"))
		require.NoError(t, l.Add(entry(tender.MethodCard, "10", "", "")))
		require.NoError(t, l.Add(entry(tender.MethodCash, "20", "", "")))
		require.NoError(t, l.Add(entry(tender.MethodCard, "30", "", "")))
		snapshot := l.Entries()

		require.NoError(t, l.Remove(1))

		got := l.Entries()
		require.Len(t, got, 2)
		helper.AssertMoney(t, "10", got[0].Amount)
		helper.AssertMoney(t, "30", got[1].Amount)
		helper.AssertMoney(t, "20", snapshot[1].Amount, "earlier snapshot must not be aliased")
	})

	t.Run("remove out of range", func(t *testing.T) {
		l := tender.NewLedger(helper.Money("100"))
		err := l.Remove(0)
		assert.True(t, errs.Is(err, tender.ErrTenderIndexOutOfRange))
	})

	t.Run("same sequence gives same state", func(t *testing.T) {
		build := func() *tender.Ledger {
			l := tender.NewLedger(helper.Money("75.50"))
			_ = l.Add(entry(tender.MethodCard, "25", "", ""))
			_ = l.Add(entry(tender.MethodCash, "100", "", ""))
			_ = l.Remove(0)
			_ = l.Add(entry(tender.MethodCard, "5", "", ""))
			return l
		}
		a, b := build(), build()
		assert.Equal(t, a.Entries(), b.Entries())
		assert.True(t, a.TotalPaid().Equal(b.TotalPaid()))
		assert.Equal(t, a.Status(), b.Status())
	})

	t.Run("replay stops at the first rejected tender", func(t *testing.T) {
		_, err := tender.Replay(helper.Money("10"), []tender.Entry{
			entry(tender.MethodCash, "5", "", ""),
			entry(tender.MethodDigitalWallet, "5", "", "khalti"),
		})
		assert.True(t, errs.Is(err, tender.ErrMissingPaymentReference))
	})
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		paid, total string
		want        tender.Status
	}{
		{"0", "100", tender.StatusUnpaid},
		{"0.01", "100", tender.StatusPartial},
		{"99.99", "100", tender.StatusPartial},
		{"100", "100", tender.StatusPaid},
		{"150", "100", tender.StatusPaid},
		{"0", "0", tender.StatusPaid},
	}
	for _, tc := range cases {
		t.Run(tc.paid+"/"+tc.total, func(t *testing.T) {
			assert.Equal(t, tc.want, tender.DeriveStatus(helper.Money(tc.paid), helper.Money(tc.total)))
		})
	}
}

func TestParseMethod(t *testing.T) {
	for _, m := range tender.Methods() {
		got, err := tender.ParseMethod(" " + string(m) + " ")
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := tender.ParseMethod("barter")
	assert.True(t, errs.Is(err, tender.ErrUnknownTenderMethod))

	assert.True(t, tender.MethodCash.Rule().MayOverpay)
	assert.False(t, tender.MethodCard.Rule().ReferenceRequired)
	assert.True(t, tender.MethodDigitalWallet.Rule().ProviderRequired)
}
