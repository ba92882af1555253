package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleView is the read model of one committed sale with its payments.
type SaleView struct {
	ID             uuid.UUID       `json:"id"`
	InvoiceNumber  string          `json:"invoice_number"`
	BusinessID     uuid.UUID       `json:"business_id"`
	CashierID      uuid.UUID       `json:"cashier_id"`
	CustomerID     *uuid.UUID      `json:"customer_id,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	CreditAmount   decimal.Decimal `json:"credit_amount"`
	ChangeAmount   decimal.Decimal `json:"change_amount"`
	PaymentStatus  string          `json:"payment_status"`
	Note           *string         `json:"note,omitempty"`
	Lines          []SaleLineView  `json:"lines"`
	Payments       []PaymentView   `json:"payments"`
	CreatedAt      time.Time       `json:"created_at"`
}

type SaleLineView struct {
	ProductID  uuid.UUID       `json:"product_id"`
	VariantID  *string         `json:"variant_id,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	PriceDelta decimal.Decimal `json:"price_delta"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

type PaymentView struct {
	ID        uuid.UUID       `json:"id"`
	Sequence  int             `json:"sequence"`
	Method    string          `json:"method"`
	Provider  *string         `json:"provider,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Reference *string         `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type SaleListItem struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}
