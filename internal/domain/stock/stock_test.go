//go:build unit

package stock_test

import (
	"math"
	"testing"

	"pos-checkout/internal/domain/stock"
	"pos-checkout/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	got := stock.Aggregate([]stock.Request{
		{ProductID: a, Quantity: 2},
		{ProductID: b, Quantity: 1},
		{ProductID: a, Quantity: 3},
	})

	assert.Equal(t, []stock.Request{
		{ProductID: a, Quantity: 5},
		{ProductID: b, Quantity: 1},
	}, got)
}

func TestAggregate_SaturatesInsteadOfWrapping(t *testing.T) {
	a := uuid.New()

	got := stock.Aggregate([]stock.Request{
		{ProductID: a, Quantity: math.MaxInt/2 + 1},
		{ProductID: a, Quantity: math.MaxInt/2 + 1},
	})

	assert.Equal(t, []stock.Request{{ProductID: a, Quantity: math.MaxInt}}, got)
}

func TestLockOrder(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	b := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	in := []stock.Request{{ProductID: b, Quantity: 1}, {ProductID: a, Quantity: 2}}

	got := stock.LockOrder(in)

	assert.Equal(t, a, got[0].ProductID)
	assert.Equal(t, b, got[1].ProductID)
	assert.Equal(t, b, in[0].ProductID, "input must not be reordered")
}

func TestErrorMarks(t *testing.T) {
	id := uuid.New()

	var insufficient error = &stock.InsufficientStockError{ProductID: id, Requested: 3, Available: 2}
	assert.True(t, errs.Is(errs.Wrap(insufficient, "validate"), stock.ErrInsufficientStock))
	assert.False(t, errs.Is(insufficient, stock.ErrConcurrentStockConflict))

	var conflict error = &stock.ConflictError{ProductID: id, Requested: 3}
	assert.True(t, errs.Is(errs.Wrap(conflict, "commit"), stock.ErrConcurrentStockConflict))
	assert.False(t, errs.Is(conflict, stock.ErrInsufficientStock))

	var typed *stock.InsufficientStockError
	assert.True(t, errs.As(errs.Wrap(insufficient, "validate"), &typed))
	assert.Equal(t, 2, typed.Available)
}
