// Package discount evaluates promotional offers against the current cart.
// Every function is pure; lifecycle and storage of offers belong to the
// remote catalog.
package discount

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbdiagne/comptoir/internal/domain/models"
)

var hundred = decimal.NewFromInt(100)

// IsApplicable reports whether an offer may be attached to a cart with the
// given lines at the given instant. The validity window is inclusive on both
// ends. Offers restricted to products match when at least one line carries a
// listed product; otherwise offers restricted to categories match when at
// least one line carries a listed category; unrestricted offers apply
// cart-wide.
func IsApplicable(d models.Discount, lines []models.CartLine, now time.Time) bool {
	if d.Status != models.DiscountActive {
		return false
	}
	if now.Before(d.ValidFrom) || now.After(d.ValidTo) {
		return false
	}

	if len(d.ApplicableProducts) > 0 {
		for _, line := range lines {
			if d.AppliesToProduct(line.ProductID) {
				return true
			}
		}
		return false
	}

	if len(d.ApplicableCategories) > 0 {
		for _, line := range lines {
			if d.AppliesToCategory(line.Category) {
				return true
			}
		}
		return false
	}

	return true
}

// Applicable filters offers down to those applicable to the given lines.
func Applicable(discounts []models.Discount, lines []models.CartLine, now time.Time) []models.Discount {
	var out []models.Discount
	for _, d := range discounts {
		if IsApplicable(d, lines, now) {
			out = append(out, d)
		}
	}
	return out
}

// Effect computes the monetary reduction an offer contributes against a cart
// subtotal. The switch is exhaustive over the discount kinds: BOGO offers are
// catalogued but carry no numeric effect, and unknown kinds contribute
// nothing.
func Effect(d models.Discount, subtotal decimal.Decimal) decimal.Decimal {
	switch d.Kind {
	case models.DiscountPercentage:
		return subtotal.Mul(d.Value).Div(hundred)
	case models.DiscountFlat:
		return d.Value
	case models.DiscountBOGO:
		// Unimplemented variant: no quantity-adjustment algorithm is defined
		// for BOGO offers.
		return decimal.Zero
	default:
		return decimal.Zero
	}
}
