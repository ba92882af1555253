package repository

import (
	"context"

	"pos-checkout/internal/infra"
	"pos-checkout/internal/infra/db"
	"pos-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	decrementStockSQL = `
UPDATE stock_levels
SET quantity = quantity - $3, updated_at = now()
WHERE business_id = $1 AND product_id = $2 AND $3 > 0 AND quantity >= $3`

	availableStockSQL = `
SELECT quantity FROM stock_levels WHERE business_id = $1 AND product_id = $2`
)

type StockRepository struct {
	db db.DBTX
}

func NewStockRepository(dbtx db.DBTX) *StockRepository {
	return &StockRepository{db: dbtx}
}

// ConditionalDecrement reports false when fewer than qty units remain; the row is left untouched.
func (r *StockRepository) ConditionalDecrement(ctx context.Context, businessID, productID uuid.UUID, qty int) (bool, error) {
	tag, err := r.db.Exec(ctx, decrementStockSQL, businessID, productID, qty)
	if err != nil {
		return false, infra.WrapRepoErr("failed to decrement stock", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *StockRepository) Available(ctx context.Context, businessID, productID uuid.UUID) (int, error) {
	var qty int
	err := r.db.QueryRow(ctx, availableStockSQL, businessID, productID).Scan(&qty)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("stock level not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to read stock level", err)
	}
	return qty, nil
}
