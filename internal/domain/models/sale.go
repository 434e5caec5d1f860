package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineDiscount is an optional per-line reduction, independent of the
// cart-wide applied offers.
type LineDiscount struct {
	Kind  DiscountKind    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// CartLine is one product entry in the in-progress sale. Quantity and unit
// price mutate in place; AvailableStock is a snapshot taken at the last
// stock-checked mutation, not a live value.
type CartLine struct {
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	Category       string          `json:"category"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	OriginalPrice  decimal.Decimal `json:"originalPrice"`
	IsCustomPrice  bool            `json:"isCustomPrice"`
	Quantity       int             `json:"quantity"`
	AvailableStock int             `json:"availableStock"`
	Discount       *LineDiscount   `json:"discount,omitempty"`
}

// LineTotal is the line's contribution to the subtotal.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals is a derived, non-authoritative snapshot recomputed on every cart
// change. Each field is rounded to two decimal places independently.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
	Tax           decimal.Decimal `json:"tax"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

// SaleLine is a frozen copy of a cart line at finalization time.
type SaleLine struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// Sale is the finalized transaction record submitted to the backend. Immutable
// from the client's perspective once created.
type Sale struct {
	InvoiceNo     string     `json:"invoiceNo"`
	CustomerID    string     `json:"customerId"`
	Lines         []SaleLine `json:"lines"`
	Totals        Totals     `json:"totals"`
	PaymentMethod string     `json:"paymentMethod"`
	PaymentStatus string     `json:"paymentStatus"`
	DiscountIDs   []string   `json:"discountIds,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// PaymentRecord references an already-created sale by invoice number.
type PaymentRecord struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceNo   string          `json:"invoiceNo"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	DiscountIDs []string        `json:"discountIds,omitempty"`
	PaidAt      time.Time       `json:"paidAt"`
}
