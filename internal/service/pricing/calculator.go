// Package pricing turns a cart and its applied offers into a totals snapshot.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mbdiagne/comptoir/internal/domain/models"
	"github.com/mbdiagne/comptoir/internal/service/discount"
)

var hundred = decimal.NewFromInt(100)

// Subtotal sums unitPrice * quantity over the lines.
func Subtotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// Compute derives the totals snapshot from the cart lines, the applied
// cart-wide offers and the tax rate (percent).
//
// totalDiscount combines the per-line reductions with the cart-wide offer
// effects; tax applies to the discounted amount. afterDiscount is deliberately
// not clamped at zero, so a discount larger than the subtotal produces a
// negative grand total. Each output field is rounded to two decimal places
// independently.
func Compute(lines []models.CartLine, applied []models.Discount, taxRate decimal.Decimal) models.Totals {
	subtotal := Subtotal(lines)

	itemDiscounts := decimal.Zero
	for _, line := range lines {
		itemDiscounts = itemDiscounts.Add(lineDiscountAmount(line))
	}

	cartDiscounts := decimal.Zero
	for _, d := range applied {
		cartDiscounts = cartDiscounts.Add(discount.Effect(d, subtotal))
	}

	totalDiscount := itemDiscounts.Add(cartDiscounts)
	afterDiscount := subtotal.Sub(totalDiscount)
	tax := afterDiscount.Mul(taxRate).Div(hundred)
	grandTotal := afterDiscount.Add(tax)

	return models.Totals{
		Subtotal:      subtotal.Round(2),
		TotalDiscount: totalDiscount.Round(2),
		Tax:           tax.Round(2),
		GrandTotal:    grandTotal.Round(2),
	}
}

// lineDiscountAmount resolves the optional per-line reduction. Percentage
// reductions apply to the line total; flat reductions are taken once per line.
func lineDiscountAmount(line models.CartLine) decimal.Decimal {
	if line.Discount == nil {
		return decimal.Zero
	}

	switch line.Discount.Kind {
	case models.DiscountPercentage:
		return line.LineTotal().Mul(line.Discount.Value).Div(hundred)
	case models.DiscountFlat:
		return line.Discount.Value
	default:
		return decimal.Zero
	}
}
