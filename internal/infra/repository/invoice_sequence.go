package repository

import (
	"context"

	"pos-checkout/internal/infra"
	"pos-checkout/internal/infra/db"

	"github.com/google/uuid"
)

const nextInvoiceSQL = `
INSERT INTO invoice_sequences (business_id, year, last_value)
VALUES ($1, $2, 1)
ON CONFLICT (business_id, year) DO UPDATE
SET last_value = invoice_sequences.last_value + 1
RETURNING last_value`

// InvoiceSequenceRepository runs on the pool, never inside a sale transaction, so a
// number once handed out is never reused.
type InvoiceSequenceRepository struct {
	db db.DBTX
}

func NewInvoiceSequenceRepository(dbtx db.DBTX) *InvoiceSequenceRepository {
	return &InvoiceSequenceRepository{db: dbtx}
}

func (r *InvoiceSequenceRepository) Next(ctx context.Context, businessID uuid.UUID, year int) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, nextInvoiceSQL, businessID, year).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to allocate invoice number", err)
	}
	return n, nil
}
