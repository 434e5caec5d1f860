package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountKind enumerates the supported promotional offer variants.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "Percentage"
	DiscountFlat       DiscountKind = "Flat"
	DiscountBOGO       DiscountKind = "BOGO"
)

// DiscountStatus is the lifecycle state maintained by the remote catalog.
type DiscountStatus string

const (
	DiscountActive   DiscountStatus = "Active"
	DiscountInactive DiscountStatus = "Inactive"
)

// Discount is a promotional offer read from the remote discount catalog. The
// terminal never mutates discounts; it only decides applicability against the
// current cart and attaches them to the in-progress sale.
type Discount struct {
	ID                   string          `json:"id"`
	OfferName            string          `json:"offerName"`
	Code                 string          `json:"code,omitempty"`
	Kind                 DiscountKind    `json:"type"`
	Value                decimal.Decimal `json:"value"`
	ValidFrom            time.Time       `json:"validFrom"`
	ValidTo              time.Time       `json:"validTo"`
	Status               DiscountStatus  `json:"status"`
	ApplicableProducts   []string        `json:"applicableProducts,omitempty"`
	ApplicableCategories []string        `json:"applicableCategories,omitempty"`
}

// AppliesToProduct reports whether the offer's product restriction list names
// the given product. Only meaningful when the list is non-empty.
func (d Discount) AppliesToProduct(productID string) bool {
	for _, id := range d.ApplicableProducts {
		if id == productID {
			return true
		}
	}
	return false
}

// AppliesToCategory reports whether the offer's category restriction list
// names the given category.
func (d Discount) AppliesToCategory(category string) bool {
	for _, c := range d.ApplicableCategories {
		if c == category {
			return true
		}
	}
	return false
}
