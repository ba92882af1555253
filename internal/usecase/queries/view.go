package queries

import (
	"pos-checkout/internal/domain/money"
	"pos-checkout/internal/domain/sale"
)

// NewSaleView projects a sale entity and its payments into the read model.
func NewSaleView(sl *sale.Sale, payments []*sale.Payment) *SaleView {
	view := &SaleView{
		ID:             sl.ID(),
		InvoiceNumber:  sl.InvoiceNumber(),
		BusinessID:     sl.BusinessID(),
		CashierID:      sl.CashierID(),
		CustomerID:     sl.CustomerID(),
		Subtotal:       sl.Subtotal(),
		DiscountAmount: sl.DiscountAmount(),
		TotalAmount:    sl.TotalAmount(),
		TaxAmount:      sl.TaxAmount(),
		PaidAmount:     sl.PaidAmount(),
		CreditAmount:   sl.CreditAmount(),
		ChangeAmount:   money.ClampZero(sl.PaidAmount().Sub(sl.TotalAmount())),
		PaymentStatus:  sl.PaymentStatus().String(),
		Lines:          make([]SaleLineView, 0, len(sl.Lines())),
		Payments:       make([]PaymentView, 0, len(payments)),
		CreatedAt:      sl.CreatedAt(),
	}
	if note := sl.Note(); note != "" {
		view.Note = &note
	}
	for _, l := range sl.Lines() {
		view.Lines = append(view.Lines, SaleLineView{
			ProductID:  l.ProductID,
			VariantID:  l.VariantID,
			UnitPrice:  l.UnitPrice,
			PriceDelta: l.PriceDelta,
			Quantity:   l.Quantity,
			LineTotal:  l.LineTotal(),
		})
	}
	for _, p := range payments {
		view.Payments = append(view.Payments, NewPaymentView(p))
	}
	return view
}

func NewPaymentView(p *sale.Payment) PaymentView {
	pv := PaymentView{
		ID:        p.ID,
		Sequence:  p.Sequence,
		Method:    p.Method.String(),
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt,
	}
	if p.Provider != "" {
		provider := p.Provider
		pv.Provider = &provider
	}
	if p.Reference != "" {
		ref := p.Reference
		pv.Reference = &ref
	}
	return pv
}
