package commands

import (
	"context"

	"pos-checkout/internal/domain/stock"
	"pos-checkout/internal/infra"
	"pos-checkout/internal/pkg/errs"

	"github.com/google/uuid"
)

type StockReader interface {
	AvailableStock(ctx context.Context, businessID, productID uuid.UUID) (int, error)
}

// StockValidator is the advisory pre-check. The authoritative check is the
// conditional decrement inside the commit unit.
type StockValidator struct {
	reads StockReader
}

func NewStockValidator(reads StockReader) *StockValidator {
	return &StockValidator{reads: reads}
}

// Validate checks requests in order and stops at the first product that cannot be served.
func (v *StockValidator) Validate(ctx context.Context, businessID uuid.UUID, requests []stock.Request) error {
	for _, r := range stock.Aggregate(requests) {
		available, err := v.reads.AvailableStock(ctx, businessID, r.ProductID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Wrapf(stock.ErrProductNotFound, "product %s", r.ProductID)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if r.Quantity > available {
			return &stock.InsufficientStockError{
				ProductID: r.ProductID,
				Requested: r.Quantity,
				Available: available,
			}
		}
	}
	return nil
}
