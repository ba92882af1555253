package repository

import (
	"context"

	"pos-checkout/internal/domain/sale"
	"pos-checkout/internal/infra"
	"pos-checkout/internal/infra/db"
	"pos-checkout/internal/pkg/pgconv"
)

const insertPaymentSQL = `
INSERT INTO sale_payments (id, sale_id, sequence, method, provider, amount, reference, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *sale.Payment) error {
	_, err := r.db.Exec(ctx, insertPaymentSQL,
		p.ID,
		p.SaleID,
		p.Sequence,
		p.Method.String(),
		pgconv.EmptyToNullText(p.Provider),
		p.Amount,
		pgconv.EmptyToNullText(p.Reference),
		pgconv.TimeToPgtype(p.CreatedAt),
	)
	if err != nil {
		switch {
		case pgconv.IsForeignKeyViolation(err):
			return infra.WrapRepoErr("payment references unknown sale", err, infra.KindForeignKeyViolated)
		case pgconv.IsUniqueViolation(err):
			return infra.WrapRepoErr("payment already recorded", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert payment", err)
	}
	return nil
}
