package response

import (
	"time"

	"pos-checkout/internal/domain/sale"
	"pos-checkout/internal/usecase/commands"
	"pos-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type SaleResponse struct {
	ID             uuid.UUID             `json:"id"`
	InvoiceNumber  string                `json:"invoiceNumber"`
	CashierID      uuid.UUID             `json:"cashierId"`
	CustomerID     *uuid.UUID            `json:"customerId,omitempty"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountAmount decimal.Decimal       `json:"discountAmount"`
	TotalAmount    decimal.Decimal       `json:"totalAmount"`
	TaxAmount      decimal.Decimal       `json:"taxAmount"`
	PaidAmount     decimal.Decimal       `json:"paidAmount"`
	CreditAmount   decimal.Decimal       `json:"creditAmount"`
	ChangeAmount   decimal.Decimal       `json:"changeAmount"`
	PaymentStatus  string                `json:"paymentStatus"`
	Note           *string               `json:"note,omitempty"`
	Lines          []SaleLineResponse    `json:"lines"`
	Payments       []SalePaymentResponse `json:"payments"`
	CreatedAt      time.Time             `json:"createdAt"`
}

type SaleLineResponse struct {
	ProductID  uuid.UUID       `json:"productId"`
	VariantID  *string         `json:"variantId,omitempty"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	PriceDelta decimal.Decimal `json:"priceDelta"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
}

type SalePaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Sequence  int             `json:"sequence"`
	Method    string          `json:"method"`
	Provider  *string         `json:"provider,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Reference *string         `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type CommitSaleResponse struct {
	Sale   *SaleResponse   `json:"sale"`
	Change decimal.Decimal `json:"change"`
}

type SaleListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerID    *uuid.UUID      `json:"customerId,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PaymentStatus string          `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type SaleListResponse struct {
	Sales      []SaleListItemResponse `json:"sales"`
	NextCursor string                 `json:"nextCursor,omitempty"`
}

type QuoteTenderResponse struct {
	Method    string          `json:"method"`
	Provider  string          `json:"provider,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

type QuoteResponse struct {
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountAmount decimal.Decimal       `json:"discountAmount"`
	TotalAmount    decimal.Decimal       `json:"totalAmount"`
	TaxAmount      decimal.Decimal       `json:"taxAmount"`
	TotalPaid      decimal.Decimal       `json:"totalPaid"`
	Remaining      decimal.Decimal       `json:"remaining"`
	Change         decimal.Decimal       `json:"change"`
	PaymentStatus  string                `json:"paymentStatus"`
	Tenders        []QuoteTenderResponse `json:"tenders" copier:"-"`
}

func FromSaleView(view *queries.SaleView) *SaleResponse {
	resp := &SaleResponse{}
	_ = copier.Copy(resp, view)
	if resp.Lines == nil {
		resp.Lines = []SaleLineResponse{}
	}
	if resp.Payments == nil {
		resp.Payments = []SalePaymentResponse{}
	}
	return resp
}

func FromCommitResult(result *commands.CommitSaleResult) *CommitSaleResponse {
	return &CommitSaleResponse{
		Sale:   FromSaleView(result.Sale),
		Change: result.Change,
	}
}

func FromSaleList(items []*queries.SaleListItem, next *queries.Cursor) *SaleListResponse {
	resp := &SaleListResponse{Sales: make([]SaleListItemResponse, 0, len(items))}
	for _, it := range items {
		var item SaleListItemResponse
		_ = copier.Copy(&item, it)
		resp.Sales = append(resp.Sales, item)
	}
	if next != nil {
		resp.NextCursor = next.After
	}
	return resp
}

func FromQuote(q *sale.Quote) *QuoteResponse {
	resp := &QuoteResponse{}
	_ = copier.Copy(resp, q)
	resp.PaymentStatus = q.PaymentStatus.String()
	resp.Tenders = make([]QuoteTenderResponse, 0, len(q.Tenders))
	for _, t := range q.Tenders {
		resp.Tenders = append(resp.Tenders, QuoteTenderResponse{
			Method:    t.Method.String(),
			Provider:  t.Provider,
			Amount:    t.Amount,
			Reference: t.Reference,
		})
	}
	return resp
}
