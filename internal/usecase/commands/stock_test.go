//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"pos-checkout/internal/domain/stock"
	"pos-checkout/internal/infra/memstore"
	"pos-checkout/internal/pkg/clock"
	"pos-checkout/internal/pkg/errs"
	"pos-checkout/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockValidator_Validate(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()
	apples, pears := uuid.New(), uuid.New()

	store := memstore.New(clock.NewMockClock(time.Now()))
	store.SetStock(businessID, apples, 5)
	store.SetStock(businessID, pears, 0)
	validator := commands.NewStockValidator(store.CommandReads())

	t.Run("enough stock", func(t *testing.T) {
		err := validator.Validate(ctx, businessID, []stock.Request{{ProductID: apples, Quantity: 5}})
		assert.NoError(t, err)
	})

	t.Run("quantities of one product are summed", func(t *testing.T) {
		err := validator.Validate(ctx, businessID, []stock.Request{
			{ProductID: apples, Quantity: 3},
			{ProductID: apples, Quantity: 3},
		})

		var insufficient *stock.InsufficientStockError
		require.True(t, errs.As(err, &insufficient))
		assert.Equal(t, apples, insufficient.ProductID)
		assert.Equal(t, 6, insufficient.Requested)
		assert.Equal(t, 5, insufficient.Available)
	})

	t.Run("out of stock", func(t *testing.T) {
		err := validator.Validate(ctx, businessID, []stock.Request{{ProductID: pears, Quantity: 1}})
		assert.True(t, errs.Is(err, stock.ErrInsufficientStock))
	})

	t.Run("unknown product", func(t *testing.T) {
		err := validator.Validate(ctx, businessID, []stock.Request{{ProductID: uuid.New(), Quantity: 1}})
		assert.True(t, errs.Is(err, stock.ErrProductNotFound))
	})

	t.Run("stock is scoped by business", func(t *testing.T) {
		err := validator.Validate(ctx, uuid.New(), []stock.Request{{ProductID: apples, Quantity: 1}})
		assert.True(t, errs.Is(err, stock.ErrProductNotFound))
	})

	t.Run("validation has no side effects", func(t *testing.T) {
		require.NoError(t, validator.Validate(ctx, businessID, []stock.Request{{ProductID: apples, Quantity: 2}}))
		assert.Equal(t, 5, store.StockOf(businessID, apples))
	})
}
