// Package cart holds the single mutable source of truth for the in-progress
// sale. Each line moves through absent → present(quantity ≥ 1) → absent; there
// are no negative or pending states.
package cart

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mbdiagne/comptoir/internal/domain/models"
	"github.com/mbdiagne/comptoir/internal/service/discount"
)

// StockView answers availability questions from the cached stock snapshot.
type StockView interface {
	TotalStock(productID string) int
}

// Cart is the in-progress transaction. It is not safe for concurrent use; the
// owning session serializes all mutations.
type Cart struct {
	stock  StockView
	logger *zap.Logger

	lines   []models.CartLine
	applied []models.Discount
}

// New builds an empty cart backed by the given stock view.
func New(stock StockView, logger *zap.Logger) *Cart {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cart{stock: stock, logger: logger}
}

// AddItem puts one unit of the product in the cart, or increments the existing
// line. The stock check uses a snapshot taken now; the cart never holds a lock
// on remote inventory.
func (c *Cart) AddItem(product models.Product, unitPrice decimal.Decimal) error {
	available := c.stock.TotalStock(product.ID)
	if available <= 0 {
		return fmt.Errorf("add %s: %w", product.ID, models.ErrOutOfStock)
	}

	for i := range c.lines {
		if c.lines[i].ProductID != product.ID {
			continue
		}
		if c.lines[i].Quantity >= available {
			return fmt.Errorf("add %s: %w", product.ID, models.ErrStockLimitExceeded)
		}
		c.lines[i].Quantity++
		c.lines[i].AvailableStock = available
		return nil
	}

	c.lines = append(c.lines, models.CartLine{
		ProductID:      product.ID,
		ProductName:    product.Name,
		Category:       product.Category,
		UnitPrice:      unitPrice,
		OriginalPrice:  product.SellingPrice,
		IsCustomPrice:  !unitPrice.Equal(product.SellingPrice),
		Quantity:       1,
		AvailableStock: available,
	})
	c.logger.Debug("line added", zap.String("product_id", product.ID), zap.Int("available", available))
	return nil
}

// UpdateQuantity sets a line's quantity. Zero or negative quantities remove
// the line. The available stock is re-fetched; on rejection the line is left
// unchanged.
func (c *Cart) UpdateQuantity(index, quantity int) error {
	if index < 0 || index >= len(c.lines) {
		return models.ErrLineNotFound
	}

	if quantity <= 0 {
		return c.RemoveItem(index)
	}

	available := c.stock.TotalStock(c.lines[index].ProductID)
	if quantity > available {
		return fmt.Errorf("set quantity %d for %s: %w", quantity, c.lines[index].ProductID, models.ErrStockLimitExceeded)
	}

	c.lines[index].Quantity = quantity
	c.lines[index].AvailableStock = available
	return nil
}

// RemoveItem deletes the line unconditionally.
func (c *Cart) RemoveItem(index int) error {
	if index < 0 || index >= len(c.lines) {
		return models.ErrLineNotFound
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// UpdatePrice overrides a line's unit price. Quantity and stock are untouched.
func (c *Cart) UpdatePrice(index int, price decimal.Decimal) error {
	if index < 0 || index >= len(c.lines) {
		return models.ErrLineNotFound
	}
	c.lines[index].UnitPrice = price
	c.lines[index].IsCustomPrice = !price.Equal(c.lines[index].OriginalPrice)
	return nil
}

// ResetPrice restores a line's original catalog price.
func (c *Cart) ResetPrice(index int) error {
	if index < 0 || index >= len(c.lines) {
		return models.ErrLineNotFound
	}
	c.lines[index].UnitPrice = c.lines[index].OriginalPrice
	c.lines[index].IsCustomPrice = false
	return nil
}

// SetLineDiscount attaches or clears the optional per-line reduction.
func (c *Cart) SetLineDiscount(index int, d *models.LineDiscount) error {
	if index < 0 || index >= len(c.lines) {
		return models.ErrLineNotFound
	}
	c.lines[index].Discount = d
	return nil
}

// ApplyDiscount attaches a cart-wide offer. The same offer id is rejected the
// second time, and an offer that is not applicable to the current lines is
// rejected at apply time rather than silently corrected later.
func (c *Cart) ApplyDiscount(d models.Discount, now time.Time) error {
	for _, existing := range c.applied {
		if existing.ID == d.ID {
			return fmt.Errorf("apply %s: %w", d.ID, models.ErrDiscountAlreadyApplied)
		}
	}

	if !discount.IsApplicable(d, c.lines, now) {
		return fmt.Errorf("apply %s: %w", d.ID, models.ErrDiscountNotApplicable)
	}

	c.applied = append(c.applied, d)
	return nil
}

// RemoveDiscount detaches an applied offer by id.
func (c *Cart) RemoveDiscount(id string) error {
	for i, d := range c.applied {
		if d.ID == id {
			c.applied = append(c.applied[:i], c.applied[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("remove %s: %w", id, models.ErrDiscountNotFound)
}

// Clear empties all lines and applied offers unconditionally. Confirming with
// the user first is the caller's concern.
func (c *Cart) Clear() {
	if len(c.lines) > 0 || len(c.applied) > 0 {
		c.logger.Debug("cart cleared", zap.Int("lines", len(c.lines)), zap.Int("discounts", len(c.applied)))
	}
	c.lines = nil
	c.applied = nil
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Applied returns a copy of the attached offers.
func (c *Cart) Applied() []models.Discount {
	out := make([]models.Discount, len(c.applied))
	copy(out, c.applied)
	return out
}

// AppliedIDs lists the attached offer ids in application order.
func (c *Cart) AppliedIDs() []string {
	ids := make([]string, 0, len(c.applied))
	for _, d := range c.applied {
		ids = append(ids, d.ID)
	}
	return ids
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}
