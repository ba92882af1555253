package repository

import (
	"context"

	"pos-checkout/internal/domain/sale"
	"pos-checkout/internal/infra"
	"pos-checkout/internal/infra/db"
	"pos-checkout/internal/pkg/pgconv"
)

const (
	insertSaleSQL = `
INSERT INTO sales (
    id, business_id, invoice_number, cashier_id, customer_id,
    subtotal, discount_amount, total_amount, tax_amount, paid_amount, credit_amount,
    payment_status, note, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	insertSaleLineSQL = `
INSERT INTO sale_lines (sale_id, line_no, product_id, variant_id, unit_price, price_delta, quantity, line_total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

type SaleRepository struct {
	db db.DBTX
}

func NewSaleRepository(dbtx db.DBTX) *SaleRepository {
	return &SaleRepository{db: dbtx}
}

func (r *SaleRepository) Create(ctx context.Context, sl *sale.Sale) error {
	note := sl.Note()
	_, err := r.db.Exec(ctx, insertSaleSQL,
		sl.ID(),
		sl.BusinessID(),
		sl.InvoiceNumber(),
		sl.CashierID(),
		pgconv.UUIDPtrToPgtype(sl.CustomerID()),
		sl.Subtotal(),
		sl.DiscountAmount(),
		sl.TotalAmount(),
		sl.TaxAmount(),
		sl.PaidAmount(),
		sl.CreditAmount(),
		sl.PaymentStatus().String(),
		pgconv.EmptyToNullText(note),
		pgconv.TimeToPgtype(sl.CreatedAt()),
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("sale or invoice number already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert sale", err)
	}

	for i, l := range sl.Lines() {
		_, err := r.db.Exec(ctx, insertSaleLineSQL,
			sl.ID(),
			i,
			l.ProductID,
			pgconv.StringPtrToPgtype(l.VariantID),
			l.UnitPrice,
			l.PriceDelta,
			l.Quantity,
			l.LineTotal(),
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert sale line", err)
		}
	}
	return nil
}
