//go:build unit || e2e

package builder

import (
	"pos-checkout/internal/domain/discount"
	"pos-checkout/internal/domain/sale"
	"pos-checkout/internal/domain/tender"
	reqdto "pos-checkout/internal/handler/dto/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LineSpec struct {
	ProductID  uuid.UUID
	VariantID  *string
	UnitPrice  string
	PriceDelta string
	Quantity   int
}

type TenderSpec struct {
	Method    tender.Method
	Provider  string
	Amount    string
	Reference string
}

type SaleBuilder struct {
	BusinessID    uuid.UUID
	CashierID     uuid.UUID
	CustomerID    *uuid.UUID
	Lines         []LineSpec
	DiscountKind  string
	DiscountValue string
	Tenders       []TenderSpec
	TaxAmount     string
	Note          string
}

// NewSaleBuilder defaults to one product at 1000 fully paid in cash.
func NewSaleBuilder() *SaleBuilder {
	return &SaleBuilder{
		BusinessID: uuid.New(),
		CashierID:  uuid.New(),
		Lines: []LineSpec{
			{ProductID: uuid.New(), UnitPrice: "1000", Quantity: 1},
		},
		Tenders: []TenderSpec{
			{Method: tender.MethodCash, Amount: "1000"},
		},
		TaxAmount: "0",
	}
}

func (b *SaleBuilder) With(mutate func(*SaleBuilder)) *SaleBuilder {
	mutate(b)
	return b
}

func (b *SaleBuilder) WithBusiness(id uuid.UUID) *SaleBuilder {
	b.BusinessID = id
	return b
}

func (b *SaleBuilder) WithCustomer(id uuid.UUID) *SaleBuilder {
	b.CustomerID = &id
	return b
}

func (b *SaleBuilder) WithLines(lines ...LineSpec) *SaleBuilder {
	b.Lines = lines
	return b
}

func (b *SaleBuilder) WithLine(productID uuid.UUID, unitPrice string, qty int) *SaleBuilder {
	b.Lines = append(b.Lines, LineSpec{ProductID: productID, UnitPrice: unitPrice, Quantity: qty})
	return b
}

func (b *SaleBuilder) WithSingleLine(productID uuid.UUID, unitPrice string, qty int) *SaleBuilder {
	b.Lines = []LineSpec{{ProductID: productID, UnitPrice: unitPrice, Quantity: qty}}
	return b
}

func (b *SaleBuilder) WithFixedDiscount(value string) *SaleBuilder {
	b.DiscountKind = string(discount.KindFixed)
	b.DiscountValue = value
	return b
}

func (b *SaleBuilder) WithPercentageDiscount(value string) *SaleBuilder {
	b.DiscountKind = string(discount.KindPercentage)
	b.DiscountValue = value
	return b
}

func (b *SaleBuilder) WithTenders(tenders ...TenderSpec) *SaleBuilder {
	b.Tenders = tenders
	return b
}

func (b *SaleBuilder) WithCash(amount string) *SaleBuilder {
	b.Tenders = []TenderSpec{{Method: tender.MethodCash, Amount: amount}}
	return b
}

func (b *SaleBuilder) WithNote(note string) *SaleBuilder {
	b.Note = note
	return b
}

func (b *SaleBuilder) BuildDraft() (sale.Draft, error) {
	draft := sale.Draft{
		BusinessID: b.BusinessID,
		CashierID:  b.CashierID,
		CustomerID: b.CustomerID,
		TaxAmount:  decimal.RequireFromString(b.TaxAmount),
		Note:       b.Note,
	}

	for _, l := range b.Lines {
		delta := decimal.Zero
		if l.PriceDelta != "" {
			delta = decimal.RequireFromString(l.PriceDelta)
		}
		// Lines are built without validation so invalid carts can be exercised.
		draft.Lines = append(draft.Lines, sale.CartLine{
			ProductID:  l.ProductID,
			VariantID:  l.VariantID,
			UnitPrice:  decimal.RequireFromString(l.UnitPrice),
			PriceDelta: delta,
			Quantity:   l.Quantity,
		})
	}

	if b.DiscountKind != "" {
		cfg, err := discount.New(b.DiscountKind, decimal.RequireFromString(b.DiscountValue))
		if err != nil {
			return sale.Draft{}, err
		}
		draft.Discount = &cfg
	}

	for _, t := range b.Tenders {
		draft.Tenders = append(draft.Tenders, tender.Entry{
			Method:    t.Method,
			Provider:  t.Provider,
			Amount:    decimal.RequireFromString(t.Amount),
			Reference: t.Reference,
		})
	}

	return draft, nil
}

// MustBuildDraft panics on an invalid discount; use BuildDraft to test that path.
func (b *SaleBuilder) MustBuildDraft() sale.Draft {
	d, err := b.BuildDraft()
	if err != nil {
		panic(err)
	}
	return d
}

func (b *SaleBuilder) BuildCommitRequestDTO() reqdto.CommitSaleRequest {
	req := reqdto.CommitSaleRequest{
		CustomerID: b.CustomerID,
		TaxAmount:  b.TaxAmount,
		Note:       b.Note,
	}
	for _, l := range b.Lines {
		req.Lines = append(req.Lines, reqdto.SaleLineRequest{
			ProductID:  l.ProductID,
			VariantID:  l.VariantID,
			UnitPrice:  l.UnitPrice,
			PriceDelta: l.PriceDelta,
			Quantity:   l.Quantity,
		})
	}
	if b.DiscountKind != "" {
		req.Discount = &reqdto.DiscountRequest{Kind: b.DiscountKind, Value: b.DiscountValue}
	}
	for _, t := range b.Tenders {
		req.Tenders = append(req.Tenders, reqdto.TenderRequest{
			Method:    string(t.Method),
			Provider:  t.Provider,
			Amount:    t.Amount,
			Reference: t.Reference,
		})
	}
	return req
}
