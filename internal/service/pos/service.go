// Package pos is the terminal's operation surface: every cart mutation,
// discount action and checkout path goes through one Service, which serializes
// them the way the original single-threaded terminal loop did.
package pos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mbdiagne/comptoir/internal/domain/models"
	"github.com/mbdiagne/comptoir/internal/ledger"
	"github.com/mbdiagne/comptoir/internal/service/cart"
	"github.com/mbdiagne/comptoir/internal/service/checkout"
	"github.com/mbdiagne/comptoir/internal/service/discount"
	"github.com/mbdiagne/comptoir/internal/service/pricing"
	"github.com/mbdiagne/comptoir/internal/session"
	"github.com/mbdiagne/comptoir/pkg/clients/backend"
)

// CatalogGateway is the slice of the products collaborator the service needs.
type CatalogGateway interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	UpdatePrice(ctx context.Context, productID string, sellingPrice decimal.Decimal) (*models.Product, error)
}

// CustomersGateway is the slice of the customers collaborator the service needs.
type CustomersGateway interface {
	GetAll(ctx context.Context) ([]models.Customer, error)
	Create(ctx context.Context, req backend.CreateCustomerRequest) (*models.Customer, error)
}

// DiscountsGateway reads the active offers.
type DiscountsGateway interface {
	GetActive(ctx context.Context) ([]models.Discount, error)
}

// CartView is the response shape for every cart-touching operation: lines,
// attached offers and a freshly recomputed totals snapshot.
type CartView struct {
	Lines     []models.CartLine `json:"lines"`
	Discounts []models.Discount `json:"discounts"`
	Totals    models.Totals     `json:"totals"`
}

// Service is the single-writer facade over the session state, cart, ledger
// and finalizer.
type Service struct {
	mu sync.Mutex

	state     *session.State
	ledger    *ledger.StockLedger
	cart      *cart.Cart
	finalizer *checkout.Finalizer

	catalog   CatalogGateway
	customers CustomersGateway
	discounts DiscountsGateway

	taxRate decimal.Decimal
	logger  *zap.Logger
	now     func() time.Time
}

// New wires the terminal service.
func New(state *session.State, stockLedger *ledger.StockLedger, c *cart.Cart, finalizer *checkout.Finalizer,
	catalog CatalogGateway, customers CustomersGateway, discounts DiscountsGateway,
	taxRate decimal.Decimal, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		state:     state,
		ledger:    stockLedger,
		cart:      c,
		finalizer: finalizer,
		catalog:   catalog,
		customers: customers,
		discounts: discounts,
		taxRate:   taxRate,
		logger:    logger,
		now:       time.Now,
	}
}

// LoadSession performs the initial fetch of catalog, customers, active offers
// and the stock snapshot.
func (s *Service) LoadSession(ctx context.Context) error {
	products, err := s.catalog.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	s.state.ReplaceCatalog(products)

	customers, err := s.customers.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load customers: %w", err)
	}
	s.state.ReplaceCustomers(customers)

	offers, err := s.discounts.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("load discounts: %w", err)
	}
	s.state.ReplaceDiscounts(offers)

	if err := s.ledger.Refresh(ctx); err != nil {
		return err
	}

	s.logger.Info("session loaded",
		zap.String("session_id", s.state.ID().String()),
		zap.Int("products", len(products)),
		zap.Int("customers", len(customers)),
		zap.Int("discounts", len(offers)))
	return nil
}

// Products lists the cached catalog.
func (s *Service) Products() []models.Product {
	return s.state.Products()
}

// Customers lists the cached directory.
func (s *Service) Customers() []models.Customer {
	return s.state.Customers()
}

// CreateCustomer registers a customer remotely and caches it on success.
func (s *Service) CreateCustomer(ctx context.Context, req backend.CreateCustomerRequest) (*models.Customer, error) {
	created, err := s.customers.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.state.AddCustomer(*created)
	return created, nil
}

// AddItem puts one unit of a catalog product in the cart. A nil unitPrice
// means the catalog selling price.
func (s *Service) AddItem(productID string, unitPrice *decimal.Decimal) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.state.Product(productID)
	if !ok {
		return s.viewLocked(), fmt.Errorf("add item %s: %w", productID, models.ErrUnknownProduct)
	}

	price := product.SellingPrice
	if unitPrice != nil {
		price = *unitPrice
	}

	if err := s.cart.AddItem(product, price); err != nil {
		return s.viewLocked(), err
	}
	return s.viewLocked(), nil
}

// UpdateQuantity sets a line quantity; zero or less removes the line.
func (s *Service) UpdateQuantity(index, quantity int) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.UpdateQuantity(index, quantity); err != nil {
		return s.viewLocked(), err
	}
	return s.viewLocked(), nil
}

// RemoveLine deletes a cart line.
func (s *Service) RemoveLine(index int) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.RemoveItem(index); err != nil {
		return s.viewLocked(), err
	}
	return s.viewLocked(), nil
}

// OverridePrice is the named local-first, remote-best-effort price edit: the
// cart line always keeps the new price; the catalog push failure is reduced to
// a warning and never rolled back.
func (s *Service) OverridePrice(ctx context.Context, index int, price decimal.Decimal) (CartView, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.UpdatePrice(index, price); err != nil {
		return s.viewLocked(), nil, err
	}

	line := s.cart.Lines()[index]

	var warnings []string
	updated, err := s.catalog.UpdatePrice(ctx, line.ProductID, price)
	if err != nil {
		s.logger.Warn("price kept locally, catalog push failed",
			zap.String("product_id", line.ProductID),
			zap.Error(err))
		warnings = append(warnings, "Price updated on this terminal, but the catalog could not be updated.")
	} else {
		s.state.UpdateProduct(*updated)
	}

	return s.viewLocked(), warnings, nil
}

// SetLineDiscount attaches a per-line reduction, or clears it when d is nil.
// This is the item-discount path of the totals formula, independent of the
// cart-wide applied offers.
func (s *Service) SetLineDiscount(index int, d *models.LineDiscount) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.SetLineDiscount(index, d); err != nil {
		return s.viewLocked(), err
	}
	return s.viewLocked(), nil
}

// ResetPrice restores a line's catalog price.
func (s *Service) ResetPrice(index int) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.ResetPrice(index); err != nil {
		return s.viewLocked(), err
	}
	return s.viewLocked(), nil
}

// ClearCart empties lines and applied offers.
func (s *Service) ClearCart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	return s.viewLocked()
}

// Cart returns the current cart view.
func (s *Service) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// ApplicableDiscounts filters the cached active offers against the current cart.
func (s *Service) ApplicableDiscounts() []models.Discount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return discount.Applicable(s.state.ActiveDiscounts(), s.cart.Lines(), s.now())
}

// ApplyDiscount attaches a cached offer by id.
func (s *Service) ApplyDiscount(id string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.state.ActiveDiscounts() {
		if d.ID == id {
			if err := s.cart.ApplyDiscount(d, s.now()); err != nil {
				return s.viewLocked(), err
			}
			return s.viewLocked(), nil
		}
	}
	return s.viewLocked(), fmt.Errorf("apply %s: %w", id, models.ErrDiscountNotFound)
}

// RemoveDiscount detaches an applied offer.
func (s *Service) RemoveDiscount(id string) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.RemoveDiscount(id); err != nil {
		return s.viewLocked(), err
	}
	return s.viewLocked(), nil
}

// SelectCustomer records the buyer; the id must exist in the cached directory.
func (s *Service) SelectCustomer(id string) error {
	if _, ok := s.state.Customer(id); !ok {
		return fmt.Errorf("select customer %s: %w", id, models.ErrUnknownCustomer)
	}
	s.state.SelectCustomer(id)
	return nil
}

// SelectPaymentMethod records the tender for the in-progress sale.
func (s *Service) SelectPaymentMethod(method string) {
	s.state.SelectPaymentMethod(method)
}

// CompleteSale runs the finalization sequence with the current selections.
// Selections are cleared only on success.
func (s *Service) CompleteSale(ctx context.Context) (*checkout.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.finalizer.Complete(ctx, s.state.SelectedCustomer(), s.state.SelectedPaymentMethod())
	if err != nil {
		return nil, err
	}

	s.state.ClearSelections()
	return result, nil
}

// HoldSale parks the current cart for later completion.
func (s *Service) HoldSale(ctx context.Context) (*checkout.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.finalizer.Hold(ctx, s.state.SelectedCustomer())
	if err != nil {
		return nil, err
	}

	s.state.ClearSelections()
	return result, nil
}

// RefreshStock forces an on-demand ledger refresh.
func (s *Service) RefreshStock(ctx context.Context) error {
	return s.ledger.Refresh(ctx)
}

// Stock reports the total and per-location quantities for a product.
func (s *Service) Stock(productID string) (int, []models.StockRecord) {
	return s.ledger.TotalStock(productID), s.ledger.Locations(productID)
}

// StockSnapshot returns the whole cached stock list and its age marker.
func (s *Service) StockSnapshot() ([]models.StockRecord, time.Time) {
	return s.ledger.Snapshot(), s.ledger.LastRefreshed()
}

// viewLocked assembles the cart view. Callers hold s.mu.
func (s *Service) viewLocked() CartView {
	lines := s.cart.Lines()
	applied := s.cart.Applied()
	return CartView{
		Lines:     lines,
		Discounts: applied,
		Totals:    pricing.Compute(lines, applied, s.taxRate),
	}
}
