package repository

import (
	"context"

	"pos-checkout/internal/domain/credit"
	"pos-checkout/internal/infra"
	"pos-checkout/internal/infra/db"
	"pos-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	chargeCreditSQL = `
UPDATE credit_accounts
SET outstanding_balance = outstanding_balance + $3, updated_at = now()
WHERE business_id = $1 AND customer_id = $2 AND outstanding_balance + $3 <= credit_limit`

	findCreditAccountSQL = `
SELECT credit_limit, outstanding_balance
FROM credit_accounts
WHERE business_id = $1 AND customer_id = $2`
)

type CreditRepository struct {
	db db.DBTX
}

func NewCreditRepository(dbtx db.DBTX) *CreditRepository {
	return &CreditRepository{db: dbtx}
}

// ConditionalCharge adds amount to the outstanding balance only while it stays within the limit.
func (r *CreditRepository) ConditionalCharge(ctx context.Context, businessID, customerID uuid.UUID, amount decimal.Decimal) (bool, error) {
	tag, err := r.db.Exec(ctx, chargeCreditSQL, businessID, customerID, amount)
	if err != nil {
		return false, infra.WrapRepoErr("failed to charge credit account", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CreditRepository) FindAccount(ctx context.Context, businessID, customerID uuid.UUID) (*credit.Account, error) {
	var limit, outstanding decimal.Decimal
	err := r.db.QueryRow(ctx, findCreditAccountSQL, businessID, customerID).Scan(&limit, &outstanding)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("credit account not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read credit account", err)
	}
	return &credit.Account{
		CustomerID:         customerID,
		CreditLimit:        limit,
		OutstandingBalance: outstanding,
	}, nil
}
