// Package session holds the terminal's per-session caches and selections.
// This replaces the module-level catalog arrays of older terminals with an
// explicit state object handed to the services that need it.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mbdiagne/comptoir/internal/domain/models"
)

// State carries the read-only caches (catalog, customers, active discounts)
// and the operator's current selections. Caches are replaced wholesale when
// reloaded; the internal lock keeps replacement safe against concurrent reads.
type State struct {
	id uuid.UUID

	mu            sync.RWMutex
	products      map[string]models.Product
	productOrder  []string
	customers     map[string]models.Customer
	discounts     []models.Discount
	customerID    string
	paymentMethod string
}

// New mints a fresh session.
func New() *State {
	return &State{
		id:        uuid.New(),
		products:  make(map[string]models.Product),
		customers: make(map[string]models.Customer),
	}
}

// ID identifies this terminal session.
func (s *State) ID() uuid.UUID {
	return s.id
}

// ReplaceCatalog swaps in a freshly fetched product list.
func (s *State) ReplaceCatalog(products []models.Product) {
	byID := make(map[string]models.Product, len(products))
	order := make([]string, 0, len(products))
	for _, p := range products {
		byID[p.ID] = p
		order = append(order, p.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = byID
	s.productOrder = order
}

// Product looks up a cached catalog entry.
func (s *State) Product(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

// UpdateProduct replaces one cached catalog entry, typically after a
// selling-price override was pushed upstream.
func (s *State) UpdateProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; ok {
		s.products[p.ID] = p
	}
}

// Products lists the cached catalog in fetch order.
func (s *State) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		out = append(out, s.products[id])
	}
	return out
}

// ReplaceCustomers swaps in a freshly fetched customer directory.
func (s *State) ReplaceCustomers(customers []models.Customer) {
	byID := make(map[string]models.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = byID
}

// AddCustomer caches a newly registered customer.
func (s *State) AddCustomer(c models.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
}

// Customer looks up a cached customer.
func (s *State) Customer(id string) (models.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	return c, ok
}

// Customers lists the cached directory.
func (s *State) Customers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	return out
}

// ReplaceDiscounts swaps in the active offer list.
func (s *State) ReplaceDiscounts(discounts []models.Discount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discounts = discounts
}

// ActiveDiscounts returns a copy of the cached offers.
func (s *State) ActiveDiscounts() []models.Discount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Discount, len(s.discounts))
	copy(out, s.discounts)
	return out
}

// SelectCustomer records the buyer for the in-progress sale.
func (s *State) SelectCustomer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerID = id
}

// SelectedCustomer returns the current buyer selection, empty when none.
func (s *State) SelectedCustomer() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerID
}

// SelectPaymentMethod records the tender for the in-progress sale.
func (s *State) SelectPaymentMethod(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentMethod = method
}

// SelectedPaymentMethod returns the current tender selection, empty when none.
func (s *State) SelectedPaymentMethod() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paymentMethod
}

// ClearSelections resets buyer and tender after a completed or held sale.
func (s *State) ClearSelections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerID = ""
	s.paymentMethod = ""
}
