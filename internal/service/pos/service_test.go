package pos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbdiagne/comptoir/internal/domain/models"
	"github.com/mbdiagne/comptoir/internal/ledger"
	cartsvc "github.com/mbdiagne/comptoir/internal/service/cart"
	checkoutsvc "github.com/mbdiagne/comptoir/internal/service/checkout"
	"github.com/mbdiagne/comptoir/internal/session"
	"github.com/mbdiagne/comptoir/pkg/clients/backend"
)

type fakeCatalog struct {
	products    []models.Product
	priceErr    error
	pricePushes int
}

func (f *fakeCatalog) GetAll(_ context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) UpdatePrice(_ context.Context, productID string, sellingPrice decimal.Decimal) (*models.Product, error) {
	f.pricePushes++
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	for _, p := range f.products {
		if p.ID == productID {
			p.SellingPrice = sellingPrice
			return &p, nil
		}
	}
	return nil, errors.New("not found")
}

type fakeCustomers struct {
	customers []models.Customer
	createErr error
}

func (f *fakeCustomers) GetAll(_ context.Context) ([]models.Customer, error) {
	return f.customers, nil
}

func (f *fakeCustomers) Create(_ context.Context, req backend.CreateCustomerRequest) (*models.Customer, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Customer{ID: "c-new", Name: req.Name, Phone: req.Phone}, nil
}

type fakeDiscounts struct {
	discounts []models.Discount
}

func (f *fakeDiscounts) GetActive(_ context.Context) ([]models.Discount, error) {
	return f.discounts, nil
}

type fakeInventory struct {
	records []models.StockRecord
}

func (f *fakeInventory) GetAll(_ context.Context) ([]models.StockRecord, error) {
	return f.records, nil
}

type fakeSales struct{}

func (fakeSales) Create(_ context.Context, sale models.Sale) (*models.Sale, error) {
	return &sale, nil
}

func (fakeSales) Hold(_ context.Context, sale models.Sale) (*models.Sale, error) {
	return &sale, nil
}

type fakePayments struct{}

func (fakePayments) Create(_ context.Context, record models.PaymentRecord) (*models.PaymentRecord, error) {
	return &record, nil
}

func activeOffer(id string) models.Discount {
	return models.Discount{
		ID:        id,
		Kind:      models.DiscountFlat,
		Value:     decimal.NewFromInt(2),
		Status:    models.DiscountActive,
		ValidFrom: time.Now().AddDate(0, 0, -1),
		ValidTo:   time.Now().AddDate(0, 0, 1),
	}
}

func newTerminal(t *testing.T, catalog *fakeCatalog, offers ...models.Discount) (*Service, *fakeCustomers) {
	t.Helper()

	if len(offers) == 0 {
		offers = []models.Discount{activeOffer("d1")}
	}

	customers := &fakeCustomers{customers: []models.Customer{{ID: "c1", Name: "Awa"}}}
	discounts := &fakeDiscounts{discounts: offers}
	inventory := &fakeInventory{records: []models.StockRecord{
		{ProductID: "px", Location: "A", Quantity: 3},
		{ProductID: "px", Location: "B", Quantity: 4},
	}}

	stockLedger := ledger.New(inventory, nil)
	state := session.New()
	cart := cartsvc.New(stockLedger, nil)
	finalizer := checkoutsvc.New(fakeSales{}, fakePayments{}, stockLedger, cart,
		decimal.NewFromInt(10), "Cash", nil)

	svc := New(state, stockLedger, cart, finalizer, catalog, customers, discounts,
		decimal.NewFromInt(10), nil)
	require.NoError(t, svc.LoadSession(context.Background()))
	return svc, customers
}

func defaultCatalog() *fakeCatalog {
	return &fakeCatalog{products: []models.Product{{
		ID:           "px",
		Name:         "Product X",
		Category:     "food",
		SellingPrice: decimal.NewFromInt(10),
	}}}
}

func TestLoadSessionPopulatesCachesAndLedger(t *testing.T) {
	svc, _ := newTerminal(t, defaultCatalog())

	assert.Len(t, svc.Products(), 1)
	assert.Len(t, svc.Customers(), 1)

	total, locations := svc.Stock("px")
	assert.Equal(t, 7, total)
	assert.Len(t, locations, 2)
}

func TestAddItemDefaultsToCatalogPrice(t *testing.T) {
	svc, _ := newTerminal(t, defaultCatalog())

	view, err := svc.AddItem("px", nil)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "10", view.Lines[0].UnitPrice.String())
	assert.Equal(t, "10.00", view.Totals.Subtotal.StringFixed(2))
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newTerminal(t, defaultCatalog())

	_, err := svc.AddItem("nope", nil)
	assert.ErrorIs(t, err, models.ErrUnknownProduct)
}

func TestOverridePriceKeepsLocalEditWhenCatalogPushFails(t *testing.T) {
	catalog := defaultCatalog()
	catalog.priceErr = errors.New("backend down")
	svc, _ := newTerminal(t, catalog)

	_, err := svc.AddItem("px", nil)
	require.NoError(t, err)

	view, warnings, err := svc.OverridePrice(context.Background(), 0, decimal.NewFromInt(8))
	require.NoError(t, err)

	// Local-first, remote-best-effort: the edit stands, the failure is a warning.
	require.Len(t, warnings, 1)
	assert.Equal(t, "8", view.Lines[0].UnitPrice.String())
	assert.True(t, view.Lines[0].IsCustomPrice)
	assert.Equal(t, 1, catalog.pricePushes)
}

func TestOverridePricePushesToCatalogOnSuccess(t *testing.T) {
	catalog := defaultCatalog()
	svc, _ := newTerminal(t, catalog)

	_, err := svc.AddItem("px", nil)
	require.NoError(t, err)

	view, warnings, err := svc.OverridePrice(context.Background(), 0, decimal.NewFromInt(12))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "12", view.Lines[0].UnitPrice.String())

	// The cached catalog entry follows the pushed price.
	require.Len(t, svc.Products(), 1)
	assert.Equal(t, "12", svc.Products()[0].SellingPrice.String())
}

func TestSetLineDiscountFlowsIntoTotals(t *testing.T) {
	svc, _ := newTerminal(t, defaultCatalog())

	_, err := svc.AddItem("px", nil)
	require.NoError(t, err)

	view, err := svc.SetLineDiscount(0, &models.LineDiscount{
		Kind:  models.DiscountPercentage,
		Value: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	// Subtotal 10, line reduction 5, 10% tax on the remainder.
	assert.Equal(t, "5.00", view.Totals.TotalDiscount.StringFixed(2))
	assert.Equal(t, "5.50", view.Totals.GrandTotal.StringFixed(2))

	view, err = svc.SetLineDiscount(0, nil)
	require.NoError(t, err)
	assert.True(t, view.Totals.TotalDiscount.IsZero())
}

func TestApplyDiscountUnknownID(t *testing.T) {
	svc, _ := newTerminal(t, defaultCatalog())

	_, err := svc.ApplyDiscount("missing")
	assert.ErrorIs(t, err, models.ErrDiscountNotFound)
}

func TestApplyDiscountRecomputesTotals(t *testing.T) {
	svc, _ := newTerminal(t, defaultCatalog())

	_, err := svc.AddItem("px", nil)
	require.NoError(t, err)

	view, err := svc.ApplyDiscount("d1")
	require.NoError(t, err)
	assert.Equal(t, "2.00", view.Totals.TotalDiscount.StringFixed(2))
	assert.Equal(t, "8.80", view.Totals.GrandTotal.StringFixed(2))
}

func TestSelectCustomerRequiresCachedEntry(t *testing.T) {
	svc, _ := newTerminal(t, defaultCatalog())

	assert.ErrorIs(t, svc.SelectCustomer("ghost"), models.ErrUnknownCustomer)
	assert.NoError(t, svc.SelectCustomer("c1"))
}

func TestCreateCustomerCachesOnSuccess(t *testing.T) {
	svc, _ := newTerminal(t, defaultCatalog())

	created, err := svc.CreateCustomer(context.Background(), backend.CreateCustomerRequest{Name: "Moussa"})
	require.NoError(t, err)
	assert.NoError(t, svc.SelectCustomer(created.ID))
}

func TestCreateCustomerRemoteFailure(t *testing.T) {
	svc, customers := newTerminal(t, defaultCatalog())
	customers.createErr = models.ErrRemoteCustomerCreateFailed

	_, err := svc.CreateCustomer(context.Background(), backend.CreateCustomerRequest{Name: "Moussa"})
	assert.ErrorIs(t, err, models.ErrRemoteCustomerCreateFailed)
}

func TestCompleteSaleClearsSelections(t *testing.T) {
	svc, _ := newTerminal(t, defaultCatalog())

	_, err := svc.AddItem("px", nil)
	require.NoError(t, err)
	require.NoError(t, svc.SelectCustomer("c1"))
	svc.SelectPaymentMethod("Card")

	result, err := svc.CompleteSale(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Sale)

	// A second completion starts from a clean slate.
	_, err = svc.CompleteSale(context.Background())
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Reasons, "Cart is empty.")
	assert.Contains(t, validationErr.Reasons, "Please select a customer.")
}

func TestApplicableDiscountsTracksCart(t *testing.T) {
	restricted := activeOffer("d2")
	restricted.ApplicableProducts = []string{"py"}
	svc, _ := newTerminal(t, defaultCatalog(), activeOffer("d1"), restricted)

	_, err := svc.AddItem("px", nil)
	require.NoError(t, err)

	offers := svc.ApplicableDiscounts()
	require.Len(t, offers, 1)
	assert.Equal(t, "d1", offers[0].ID)
}
