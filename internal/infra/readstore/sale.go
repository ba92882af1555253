package readstore

import (
	"context"
	"time"

	"pos-checkout/internal/domain/sale"
	"pos-checkout/internal/domain/tender"
	"pos-checkout/internal/infra"
	"pos-checkout/internal/infra/db"
	"pos-checkout/internal/pkg/pgconv"
	"pos-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	getSaleSQL = `
SELECT id, invoice_number, business_id, cashier_id, customer_id,
       subtotal, discount_amount, total_amount, tax_amount, paid_amount, credit_amount,
       payment_status, note, created_at
FROM sales
WHERE business_id = $1 AND id = $2`

	getSaleLinesSQL = `
SELECT product_id, variant_id, unit_price, price_delta, quantity
FROM sale_lines
WHERE sale_id = $1
ORDER BY line_no`

	getSalePaymentsSQL = `
SELECT id, sequence, method, provider, amount, reference, created_at
FROM sale_payments
WHERE sale_id = $1
ORDER BY sequence`

	listSalesFirstPageSQL = `
SELECT id, invoice_number, customer_id, total_amount, paid_amount, payment_status, created_at
FROM sales
WHERE business_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

	listSalesKeysetSQL = `
SELECT id, invoice_number, customer_id, total_amount, paid_amount, payment_status, created_at
FROM sales
WHERE business_id = $1 AND (created_at, id) < ($2, $3)
ORDER BY created_at DESC, id DESC
LIMIT $4`
)

type SaleReadStore struct {
	db db.DBTX
}

func NewSaleReadStore(dbtx db.DBTX) *SaleReadStore {
	return &SaleReadStore{db: dbtx}
}

func (r *SaleReadStore) FindByID(ctx context.Context, businessID, id uuid.UUID) (*queries.SaleView, error) {
	var (
		saleID, bizID, cashierID                                 uuid.UUID
		invoice, status                                          string
		customerID                                               pgtype.UUID
		note                                                     pgtype.Text
		createdAt                                                pgtype.Timestamptz
		subtotal, discountAmount, total, tax, paid, creditAmount decimal.Decimal
	)
	err := r.db.QueryRow(ctx, getSaleSQL, businessID, id).Scan(
		&saleID, &invoice, &bizID, &cashierID, &customerID,
		&subtotal, &discountAmount, &total, &tax, &paid, &creditAmount,
		&status, &note, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("sale not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get sale by id", err)
	}

	lines, err := r.lines(ctx, saleID)
	if err != nil {
		return nil, err
	}
	payments, err := r.payments(ctx, saleID)
	if err != nil {
		return nil, err
	}

	var noteText string
	if p := pgconv.StringPtrFromPgtype(note); p != nil {
		noteText = *p
	}
	sl := sale.Reconstruct(
		saleID, invoice, bizID, cashierID, pgconv.UUIDPtrFromPgtype(customerID), lines,
		subtotal, discountAmount, total, tax, paid, creditAmount,
		tender.Status(status), noteText, pgconv.TimeFromPgtype(createdAt),
	)
	return queries.NewSaleView(sl, payments), nil
}

func (r *SaleReadStore) lines(ctx context.Context, saleID uuid.UUID) ([]sale.CartLine, error) {
	rows, err := r.db.Query(ctx, getSaleLinesSQL, saleID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get sale lines", err)
	}
	defer rows.Close()

	var lines []sale.CartLine
	for rows.Next() {
		var (
			l       sale.CartLine
			variant pgtype.Text
		)
		if err := rows.Scan(&l.ProductID, &variant, &l.UnitPrice, &l.PriceDelta, &l.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan sale line", err)
		}
		l.VariantID = pgconv.StringPtrFromPgtype(variant)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate sale lines", err)
	}
	return lines, nil
}

func (r *SaleReadStore) payments(ctx context.Context, saleID uuid.UUID) ([]*sale.Payment, error) {
	rows, err := r.db.Query(ctx, getSalePaymentsSQL, saleID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get sale payments", err)
	}
	defer rows.Close()

	var payments []*sale.Payment
	for rows.Next() {
		var (
			p                   = &sale.Payment{SaleID: saleID}
			method              string
			provider, reference pgtype.Text
			createdAt           pgtype.Timestamptz
		)
		if err := rows.Scan(&p.ID, &p.Sequence, &method, &provider, &p.Amount, &reference, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan sale payment", err)
		}
		p.Method = tender.Method(method)
		p.Provider = provider.String
		p.Reference = reference.String
		p.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate sale payments", err)
	}
	return payments, nil
}

func (r *SaleReadStore) FindByBusinessFirstPage(ctx context.Context, businessID uuid.UUID, limit int32) ([]*queries.SaleListItem, error) {
	rows, err := r.db.Query(ctx, listSalesFirstPageSQL, businessID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list sales first page", err)
	}
	return collectListItems(rows)
}

func (r *SaleReadStore) FindByBusinessKeyset(ctx context.Context, businessID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.SaleListItem, error) {
	rows, err := r.db.Query(ctx, listSalesKeysetSQL, businessID, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list sales by keyset", err)
	}
	return collectListItems(rows)
}

func collectListItems(rows pgx.Rows) ([]*queries.SaleListItem, error) {
	defer rows.Close()

	items := make([]*queries.SaleListItem, 0)
	for rows.Next() {
		var (
			it         queries.SaleListItem
			customerID pgtype.UUID
			createdAt  pgtype.Timestamptz
		)
		if err := rows.Scan(&it.ID, &it.InvoiceNumber, &customerID, &it.TotalAmount, &it.PaidAmount, &it.PaymentStatus, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan sale list item", err)
		}
		it.CustomerID = pgconv.UUIDPtrFromPgtype(customerID)
		it.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate sales", err)
	}
	return items, nil
}
