// Package checkout orchestrates the completion of a sale: validation, remote
// sale creation, payment recording and local reset. The sequence is atomic in
// intent but not in fact; the defined partial-failure behavior is what makes
// it safe.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mbdiagne/comptoir/internal/domain/models"
	"github.com/mbdiagne/comptoir/internal/service/cart"
	"github.com/mbdiagne/comptoir/internal/service/pricing"
)

// Phase tracks where the finalizer is in its state machine.
type Phase string

const (
	PhaseIdle             Phase = "Idle"
	PhaseValidating       Phase = "Validating"
	PhaseSubmitting       Phase = "Submitting"
	PhasePaymentRecording Phase = "PaymentRecording"
	PhaseResetting        Phase = "Resetting"
)

// SalesGateway submits finalized and held sales to the backend.
type SalesGateway interface {
	Create(ctx context.Context, sale models.Sale) (*models.Sale, error)
	Hold(ctx context.Context, sale models.Sale) (*models.Sale, error)
}

// PaymentsGateway records payments against existing invoices.
type PaymentsGateway interface {
	Create(ctx context.Context, record models.PaymentRecord) (*models.PaymentRecord, error)
}

// StockSource is the live ledger the finalizer re-validates against and
// refreshes after a completed sale.
type StockSource interface {
	TotalStock(productID string) int
	Refresh(ctx context.Context) error
}

// Result reports a successful finalization. Warnings carry the soft failures
// (payment record, stock refresh, hold-side effects) that did not stop the
// sale.
type Result struct {
	Sale     *models.Sale
	Warnings []string
}

// Finalizer drives Idle → Validating → Submitting → PaymentRecording →
// Resetting → Idle. Any failure returns it to Idle.
type Finalizer struct {
	sales    SalesGateway
	payments PaymentsGateway
	stock    StockSource
	cart     *cart.Cart

	taxRate        decimal.Decimal
	defaultPayment string
	logger         *zap.Logger

	phase Phase
	now   func() time.Time
}

// New wires a finalizer for the given cart and collaborators.
func New(sales SalesGateway, payments PaymentsGateway, stock StockSource, c *cart.Cart, taxRate decimal.Decimal, defaultPayment string, logger *zap.Logger) *Finalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finalizer{
		sales:          sales,
		payments:       payments,
		stock:          stock,
		cart:           c,
		taxRate:        taxRate,
		defaultPayment: defaultPayment,
		logger:         logger,
		phase:          PhaseIdle,
		now:            time.Now,
	}
}

// Phase reports the current state-machine position.
func (f *Finalizer) Phase() Phase {
	return f.phase
}

// Complete runs the full finalization sequence.
//
// Validation failures abort before any remote call; a failed sale creation
// aborts everything with the cart untouched so the user can retry; a failed
// payment record is a warning only, because the sale is the source of truth
// once created.
func (f *Finalizer) Complete(ctx context.Context, customerID, paymentMethod string) (*Result, error) {
	defer func() { f.phase = PhaseIdle }()

	f.phase = PhaseValidating
	if reasons := f.validate(customerID, paymentMethod); len(reasons) > 0 {
		return nil, &models.ValidationError{Reasons: reasons}
	}

	f.phase = PhaseSubmitting
	lines := f.cart.Lines()
	totals := pricing.Compute(lines, f.cart.Applied(), f.taxRate)
	sale := f.buildSale(invoiceNumber("INV", f.now()), customerID, paymentMethod, lines, totals)

	created, err := f.sales.Create(ctx, sale)
	if err != nil {
		f.logger.Error("sale submission failed", zap.String("invoice_no", sale.InvoiceNo), zap.Error(err))
		return nil, err
	}
	f.logger.Info("sale created",
		zap.String("invoice_no", sale.InvoiceNo),
		zap.String("customer_id", customerID),
		zap.String("grand_total", totals.GrandTotal.String()))

	result := &Result{Sale: created}

	f.phase = PhasePaymentRecording
	record := models.PaymentRecord{
		ID:          uuid.New(),
		InvoiceNo:   sale.InvoiceNo,
		Amount:      totals.GrandTotal,
		Method:      paymentMethod,
		DiscountIDs: sale.DiscountIDs,
		PaidAt:      f.now(),
	}
	if _, err := f.payments.Create(ctx, record); err != nil {
		// Non-fatal: the sale already exists remotely.
		f.logger.Warn("payment record failed, sale kept", zap.String("invoice_no", sale.InvoiceNo), zap.Error(err))
		result.Warnings = append(result.Warnings, fmt.Sprintf("Sale %s recorded, but the payment record could not be saved.", sale.InvoiceNo))
	}

	f.phase = PhaseResetting
	f.cart.Clear()
	if err := f.stock.Refresh(ctx); err != nil {
		f.logger.Warn("post-sale stock refresh failed", zap.Error(err))
		result.Warnings = append(result.Warnings, "Stock view could not be refreshed; it will catch up on the next cycle.")
	}

	return result, nil
}

// Hold parks the current cart under a HOLD reference and clears it. Payment
// method validation and payment recording are skipped; the configured default
// method is stamped on the held record.
func (f *Finalizer) Hold(ctx context.Context, customerID string) (*Result, error) {
	defer func() { f.phase = PhaseIdle }()

	f.phase = PhaseValidating
	if f.cart.IsEmpty() {
		return nil, &models.ValidationError{Reasons: []string{"Cart is empty."}}
	}

	f.phase = PhaseSubmitting
	lines := f.cart.Lines()
	totals := pricing.Compute(lines, f.cart.Applied(), f.taxRate)
	sale := f.buildSale(invoiceNumber("HOLD", f.now()), customerID, f.defaultPayment, lines, totals)
	sale.PaymentStatus = "Held"

	held, err := f.sales.Hold(ctx, sale)
	if err != nil {
		f.logger.Error("hold submission failed", zap.String("reference", sale.InvoiceNo), zap.Error(err))
		return nil, err
	}
	f.logger.Info("sale held", zap.String("reference", sale.InvoiceNo))

	f.phase = PhaseResetting
	f.cart.Clear()

	return &Result{Sale: held}, nil
}

// validate collects every human-readable blocker for completing the sale.
// Each line is re-checked against the latest ledger totals, not its cached
// snapshot.
func (f *Finalizer) validate(customerID, paymentMethod string) []string {
	var reasons []string

	if f.cart.IsEmpty() {
		reasons = append(reasons, "Cart is empty.")
	}
	if customerID == "" {
		reasons = append(reasons, "Please select a customer.")
	}
	if paymentMethod == "" {
		reasons = append(reasons, "Please select a payment method.")
	}

	for _, line := range f.cart.Lines() {
		available := f.stock.TotalStock(line.ProductID)
		if line.Quantity > available {
			reasons = append(reasons, fmt.Sprintf("Insufficient stock for %s: %d requested, %d available.", line.ProductName, line.Quantity, available))
		}
	}

	return reasons
}

func (f *Finalizer) buildSale(invoiceNo, customerID, paymentMethod string, lines []models.CartLine, totals models.Totals) models.Sale {
	saleLines := make([]models.SaleLine, 0, len(lines))
	for _, line := range lines {
		saleLines = append(saleLines, models.SaleLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal(),
		})
	}

	return models.Sale{
		InvoiceNo:     invoiceNo,
		CustomerID:    customerID,
		Lines:         saleLines,
		Totals:        totals,
		PaymentMethod: paymentMethod,
		PaymentStatus: "Paid",
		DiscountIDs:   f.cart.AppliedIDs(),
		CreatedAt:     f.now(),
	}
}

// invoiceNumber derives the reference from the current time. Collisions at
// millisecond resolution are accepted as negligible for a single terminal.
func invoiceNumber(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%d", prefix, now.UnixMilli())
}
