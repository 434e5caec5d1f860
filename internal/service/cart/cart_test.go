package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbdiagne/comptoir/internal/domain/models"
)

type fakeStock map[string]int

func (f fakeStock) TotalStock(productID string) int {
	return f[productID]
}

var productX = models.Product{
	ID:           "px",
	Name:         "Product X",
	Category:     "food",
	SellingPrice: decimal.NewFromInt(10),
}

func cartWideDiscount(id string) models.Discount {
	return models.Discount{
		ID:        id,
		Kind:      models.DiscountFlat,
		Value:     decimal.NewFromInt(5),
		Status:    models.DiscountActive,
		ValidFrom: time.Now().AddDate(0, 0, -1),
		ValidTo:   time.Now().AddDate(0, 0, 1),
	}
}

func TestAddItemCreatesLineWithStockSnapshot(t *testing.T) {
	c := New(fakeStock{"px": 5}, nil)

	require.NoError(t, c.AddItem(productX, decimal.NewFromInt(10)))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, 5, lines[0].AvailableStock)
	assert.False(t, lines[0].IsCustomPrice)
}

func TestAddItemCustomPriceFlag(t *testing.T) {
	c := New(fakeStock{"px": 5}, nil)

	require.NoError(t, c.AddItem(productX, decimal.NewFromInt(8)))

	lines := c.Lines()
	assert.True(t, lines[0].IsCustomPrice)
	assert.Equal(t, "8", lines[0].UnitPrice.String())
	assert.Equal(t, "10", lines[0].OriginalPrice.String())
}

func TestAddItemOutOfStock(t *testing.T) {
	c := New(fakeStock{}, nil)

	err := c.AddItem(productX, decimal.NewFromInt(10))
	require.ErrorIs(t, err, models.ErrOutOfStock)
	assert.True(t, c.IsEmpty())
}

func TestAddItemIncrementsUpToAvailableStock(t *testing.T) {
	c := New(fakeStock{"px": 2}, nil)

	require.NoError(t, c.AddItem(productX, productX.SellingPrice))
	require.NoError(t, c.AddItem(productX, productX.SellingPrice))

	err := c.AddItem(productX, productX.SellingPrice)
	require.ErrorIs(t, err, models.ErrStockLimitExceeded)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestUpdateQuantityRejectsBeyondStock(t *testing.T) {
	stock := fakeStock{"px": 5}
	c := New(stock, nil)
	require.NoError(t, c.AddItem(productX, productX.SellingPrice))
	require.NoError(t, c.UpdateQuantity(0, 5))

	err := c.UpdateQuantity(0, 6)
	require.ErrorIs(t, err, models.ErrStockLimitExceeded)
	assert.Equal(t, 5, c.Lines()[0].Quantity)
}

func TestUpdateQuantityRefreshesStockSnapshot(t *testing.T) {
	stock := fakeStock{"px": 5}
	c := New(stock, nil)
	require.NoError(t, c.AddItem(productX, productX.SellingPrice))

	stock["px"] = 9
	require.NoError(t, c.UpdateQuantity(0, 3))

	line := c.Lines()[0]
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 9, line.AvailableStock)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	c := New(fakeStock{"px": 5}, nil)
	require.NoError(t, c.AddItem(productX, productX.SellingPrice))

	require.NoError(t, c.UpdateQuantity(0, 0))
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	c := New(fakeStock{}, nil)
	assert.ErrorIs(t, c.UpdateQuantity(3, 1), models.ErrLineNotFound)
}

func TestPriceOverrideRoundTrip(t *testing.T) {
	c := New(fakeStock{"px": 5}, nil)
	require.NoError(t, c.AddItem(productX, productX.SellingPrice))

	require.NoError(t, c.UpdatePrice(0, decimal.NewFromInt(7)))
	require.NoError(t, c.UpdatePrice(0, decimal.NewFromInt(6)))
	line := c.Lines()[0]
	assert.True(t, line.IsCustomPrice)
	assert.Equal(t, "6", line.UnitPrice.String())

	require.NoError(t, c.ResetPrice(0))
	line = c.Lines()[0]
	assert.False(t, line.IsCustomPrice)
	assert.True(t, line.UnitPrice.Equal(line.OriginalPrice))
}

func TestUpdatePriceBackToOriginalClearsCustomFlag(t *testing.T) {
	c := New(fakeStock{"px": 5}, nil)
	require.NoError(t, c.AddItem(productX, productX.SellingPrice))

	require.NoError(t, c.UpdatePrice(0, decimal.NewFromInt(7)))
	require.NoError(t, c.UpdatePrice(0, productX.SellingPrice))
	assert.False(t, c.Lines()[0].IsCustomPrice)
}

func TestSetLineDiscountAttachesAndClears(t *testing.T) {
	c := New(fakeStock{"px": 5}, nil)
	require.NoError(t, c.AddItem(productX, productX.SellingPrice))

	d := &models.LineDiscount{Kind: models.DiscountFlat, Value: decimal.NewFromInt(3)}
	require.NoError(t, c.SetLineDiscount(0, d))

	line := c.Lines()[0]
	require.NotNil(t, line.Discount)
	assert.Equal(t, "3", line.Discount.Value.String())
	assert.Equal(t, 1, line.Quantity)

	require.NoError(t, c.SetLineDiscount(0, nil))
	assert.Nil(t, c.Lines()[0].Discount)
}

func TestSetLineDiscountUnknownLine(t *testing.T) {
	c := New(fakeStock{}, nil)
	err := c.SetLineDiscount(0, &models.LineDiscount{Kind: models.DiscountFlat, Value: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, models.ErrLineNotFound)
}

func TestApplyDiscountRejectsDuplicateID(t *testing.T) {
	c := New(fakeStock{"px": 5}, nil)
	require.NoError(t, c.AddItem(productX, productX.SellingPrice))

	d := cartWideDiscount("d1")
	require.NoError(t, c.ApplyDiscount(d, time.Now()))

	err := c.ApplyDiscount(d, time.Now())
	require.ErrorIs(t, err, models.ErrDiscountAlreadyApplied)
	assert.Len(t, c.Applied(), 1)
}

func TestApplyDiscountRejectsInapplicable(t *testing.T) {
	c := New(fakeStock{"px": 5}, nil)
	require.NoError(t, c.AddItem(productX, productX.SellingPrice))

	d := cartWideDiscount("d1")
	d.ApplicableProducts = []string{"other"}

	err := c.ApplyDiscount(d, time.Now())
	require.ErrorIs(t, err, models.ErrDiscountNotApplicable)
	assert.Empty(t, c.Applied())
}

func TestRemoveDiscount(t *testing.T) {
	c := New(fakeStock{"px": 5}, nil)
	require.NoError(t, c.ApplyDiscount(cartWideDiscount("d1"), time.Now()))

	require.NoError(t, c.RemoveDiscount("d1"))
	assert.Empty(t, c.Applied())

	assert.ErrorIs(t, c.RemoveDiscount("d1"), models.ErrDiscountNotFound)
}

func TestClearEmptiesLinesAndDiscounts(t *testing.T) {
	c := New(fakeStock{"px": 5}, nil)
	require.NoError(t, c.AddItem(productX, productX.SellingPrice))
	require.NoError(t, c.ApplyDiscount(cartWideDiscount("d1"), time.Now()))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Applied())
}

func TestRemoveItemDeletesOnlyTargetLine(t *testing.T) {
	other := productX
	other.ID = "py"
	other.Name = "Product Y"

	c := New(fakeStock{"px": 5, "py": 5}, nil)
	require.NoError(t, c.AddItem(productX, productX.SellingPrice))
	require.NoError(t, c.AddItem(other, other.SellingPrice))

	require.NoError(t, c.RemoveItem(0))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "py", lines[0].ProductID)
}
