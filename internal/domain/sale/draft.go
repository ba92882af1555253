package sale

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"pos-checkout/internal/domain/discount"
	"pos-checkout/internal/domain/money"
	"pos-checkout/internal/domain/tender"
	"pos-checkout/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrBusinessRequired = errs.New("business id required")

// Draft is the request-scoped input of one checkout attempt.
type Draft struct {
	BusinessID uuid.UUID
	CashierID  uuid.UUID
	CustomerID *uuid.UUID
	Lines      []CartLine
	Discount   *discount.Config
	Tenders    []tender.Entry
	TaxAmount  decimal.Decimal
	Note       string
}

// Validate checks shape only. Money rules are applied by Evaluate.
func (d Draft) Validate() error {
	if d.BusinessID == uuid.Nil {
		return ErrBusinessRequired
	}
	if len(d.Lines) == 0 {
		return ErrEmptyCart
	}
	for _, l := range d.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	for _, r := range StockRequests(d.Lines) {
		if r.Quantity > MaxQuantity {
			return errs.Wrapf(ErrQuantityTooLarge, "product %s: %d units across lines", r.ProductID, r.Quantity)
		}
	}
	if d.TaxAmount.IsNegative() {
		return errs.Wrap(money.ErrNegativeAmount, "tax amount")
	}
	return nil
}

func (d Draft) Subtotal() decimal.Decimal {
	return Subtotal(d.Lines)
}

type fingerprintLine struct {
	ProductID  string  `json:"p"`
	VariantID  *string `json:"v,omitempty"`
	UnitPrice  string  `json:"u"`
	PriceDelta string  `json:"d"`
	Quantity   int     `json:"q"`
}

type fingerprintTender struct {
	Method    string `json:"m"`
	Provider  string `json:"pr,omitempty"`
	Amount    string `json:"a"`
	Reference string `json:"r,omitempty"`
}

type fingerprintDoc struct {
	BusinessID    string              `json:"b"`
	CustomerID    string              `json:"c,omitempty"`
	Lines         []fingerprintLine   `json:"l"`
	DiscountKind  string              `json:"dk,omitempty"`
	DiscountValue string              `json:"dv,omitempty"`
	Tenders       []fingerprintTender `json:"t"`
	TaxAmount     string              `json:"tx"`
	Note          string              `json:"n,omitempty"`
}

// Fingerprint is a stable hash of everything that affects the committed sale.
// Decimal values are rendered at fixed scale so 10 and 10.00 hash the same.
func (d Draft) Fingerprint() (string, error) {
	doc := fingerprintDoc{
		BusinessID: d.BusinessID.String(),
		TaxAmount:  d.TaxAmount.StringFixed(money.Scale),
		Note:       d.Note,
	}
	if d.CustomerID != nil {
		doc.CustomerID = d.CustomerID.String()
	}
	for _, l := range d.Lines {
		doc.Lines = append(doc.Lines, fingerprintLine{
			ProductID:  l.ProductID.String(),
			VariantID:  l.VariantID,
			UnitPrice:  l.UnitPrice.StringFixed(money.Scale),
			PriceDelta: l.PriceDelta.StringFixed(money.Scale),
			Quantity:   l.Quantity,
		})
	}
	if d.Discount != nil {
		doc.DiscountKind = d.Discount.Kind().String()
		doc.DiscountValue = d.Discount.Value().StringFixed(4)
	}
	for _, t := range d.Tenders {
		doc.Tenders = append(doc.Tenders, fingerprintTender{
			Method:    t.Method.String(),
			Provider:  t.Provider,
			Amount:    t.Amount.StringFixed(money.Scale),
			Reference: t.Reference,
		})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", errs.Wrap(err, "marshal draft fingerprint")
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
