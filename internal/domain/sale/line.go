package sale

import (
	"math"
	"strings"

	"pos-checkout/internal/domain/money"
	"pos-checkout/internal/domain/stock"
	"pos-checkout/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity is the most units of one product a cart may hold; stock and line
// quantities are stored as 32-bit integers.
const MaxQuantity = math.MaxInt32

var (
	ErrInvalidQuantity  = errs.New("quantity must be greater than zero")
	ErrQuantityTooLarge = errs.New("quantity exceeds the per-product maximum")
	ErrInvalidUnitPrice = errs.New("unit price cannot be negative")
	ErrProductRequired  = errs.New("product id required")
	ErrEmptyCart        = errs.New("cart has no lines")
)

// CartLine is owned by the caller until commit and never mutated by the engine.
type CartLine struct {
	ProductID  uuid.UUID
	VariantID  *string
	UnitPrice  decimal.Decimal
	PriceDelta decimal.Decimal
	Quantity   int
}

func NewCartLine(productID uuid.UUID, unitPrice decimal.Decimal, quantity int, variantID *string, priceDelta decimal.Decimal) (CartLine, error) {
	line := CartLine{
		ProductID:  productID,
		VariantID:  normalizeVariant(variantID),
		UnitPrice:  money.Normalize(unitPrice),
		PriceDelta: money.Normalize(priceDelta),
		Quantity:   quantity,
	}
	if err := line.Validate(); err != nil {
		return CartLine{}, err
	}
	return line, nil
}

func (l CartLine) Validate() error {
	if l.ProductID == uuid.Nil {
		return ErrProductRequired
	}
	if l.Quantity <= 0 {
		return errs.Wrapf(ErrInvalidQuantity, "product %s", l.ProductID)
	}
	if l.Quantity > MaxQuantity {
		return errs.Wrapf(ErrQuantityTooLarge, "product %s", l.ProductID)
	}
	if l.UnitPrice.Add(l.PriceDelta).IsNegative() {
		return errs.Wrapf(ErrInvalidUnitPrice, "product %s", l.ProductID)
	}
	return nil
}

// LineTotal is (unitPrice + variant delta) * quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return money.Normalize(l.UnitPrice.Add(l.PriceDelta).Mul(decimal.NewFromInt(int64(l.Quantity))))
}

func normalizeVariant(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func Subtotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return money.Normalize(total)
}

func StockRequests(lines []CartLine) []stock.Request {
	reqs := make([]stock.Request, 0, len(lines))
	for _, l := range lines {
		reqs = append(reqs, stock.Request{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return stock.Aggregate(reqs)
}
