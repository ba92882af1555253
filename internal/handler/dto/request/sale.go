package request

import (
	"strings"

	"pos-checkout/internal/domain/discount"
	"pos-checkout/internal/domain/sale"
	"pos-checkout/internal/domain/tender"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleLineRequest struct {
	ProductID  uuid.UUID `json:"productId" binding:"required"`
	VariantID  *string   `json:"variantId,omitempty" binding:"omitempty,max=64"`
	UnitPrice  string    `json:"unitPrice" binding:"required,money"`
	PriceDelta string    `json:"priceDelta,omitempty" binding:"omitempty,signed_money"`
	Quantity   int       `json:"quantity" binding:"required,gt=0,lte=2147483647"`
}

type DiscountRequest struct {
	Kind  string `json:"kind" binding:"required,discount_kind"`
	Value string `json:"value" binding:"required,money"`
}

type TenderRequest struct {
	Method    string `json:"method" binding:"required,tender_method"`
	Provider  string `json:"provider,omitempty" binding:"max=64"`
	Amount    string `json:"amount" binding:"required,money"`
	Reference string `json:"reference,omitempty" binding:"max=128"`
}

// CommitSaleRequest is shared by the quote and commit endpoints.
type CommitSaleRequest struct {
	CustomerID *uuid.UUID        `json:"customerId,omitempty"`
	Lines      []SaleLineRequest `json:"lines" binding:"required,min=1,max=200,dive"`
	Discount   *DiscountRequest  `json:"discount,omitempty"`
	Tenders    []TenderRequest   `json:"tenders" binding:"max=20,dive"`
	TaxAmount  string            `json:"taxAmount,omitempty" binding:"omitempty,money"`
	Note       string            `json:"note,omitempty" binding:"max=500"`
}

// ToDomain builds the draft for the authenticated terminal. Business and cashier
// never come from the body.
func (r CommitSaleRequest) ToDomain(businessID, cashierID uuid.UUID) (sale.Draft, error) {
	draft := sale.Draft{
		BusinessID: businessID,
		CashierID:  cashierID,
		CustomerID: r.CustomerID,
		Note:       strings.TrimSpace(r.Note),
		TaxAmount:  decimal.Zero,
	}

	if r.TaxAmount != "" {
		tax, err := decimal.NewFromString(r.TaxAmount)
		if err != nil {
			return sale.Draft{}, err
		}
		draft.TaxAmount = tax
	}

	for _, l := range r.Lines {
		unitPrice, err := decimal.NewFromString(l.UnitPrice)
		if err != nil {
			return sale.Draft{}, err
		}
		delta := decimal.Zero
		if l.PriceDelta != "" {
			if delta, err = decimal.NewFromString(l.PriceDelta); err != nil {
				return sale.Draft{}, err
			}
		}
		line, err := sale.NewCartLine(l.ProductID, unitPrice, l.Quantity, l.VariantID, delta)
		if err != nil {
			return sale.Draft{}, err
		}
		draft.Lines = append(draft.Lines, line)
	}

	if r.Discount != nil {
		value, err := decimal.NewFromString(r.Discount.Value)
		if err != nil {
			return sale.Draft{}, err
		}
		cfg, err := discount.New(r.Discount.Kind, value)
		if err != nil {
			return sale.Draft{}, err
		}
		draft.Discount = &cfg
	}

	for _, t := range r.Tenders {
		method, err := tender.ParseMethod(t.Method)
		if err != nil {
			return sale.Draft{}, err
		}
		amount, err := decimal.NewFromString(t.Amount)
		if err != nil {
			return sale.Draft{}, err
		}
		entry, err := tender.NewEntry(method, amount, t.Reference, t.Provider)
		if err != nil {
			return sale.Draft{}, err
		}
		draft.Tenders = append(draft.Tenders, entry)
	}

	return draft, nil
}
