package models

import "github.com/shopspring/decimal"

// Product is the client's read-only copy of a catalog entry. The catalog is
// owned by the remote backend; the only mutation the terminal ever pushes back
// is an explicit selling-price override.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	CostPrice    decimal.Decimal `json:"costPrice"`
}

// Customer identifies the buyer attached to a sale.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}
