package backend

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/mbdiagne/comptoir/internal/domain/models"
)

// ProductsService exposes the remote product catalog operations.
type ProductsService struct {
	http *resty.Client
}

// GetAll fetches the full product catalog.
func (s *ProductsService) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	apiErr := new(apiError)

	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&products).
		SetError(apiErr).
		Get("/products")
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	if err := checkStatus(resp, apiErr, "fetch products"); err != nil {
		return nil, err
	}

	return products, nil
}

// UpdatePrice pushes a selling-price override back to the catalog.
func (s *ProductsService) UpdatePrice(ctx context.Context, productID string, sellingPrice decimal.Decimal) (*models.Product, error) {
	payload := map[string]any{"sellingPrice": sellingPrice}

	result := new(models.Product)
	apiErr := new(apiError)

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Patch(fmt.Sprintf("/products/%s", productID))
	if err != nil {
		return nil, fmt.Errorf("update product price: %w", err)
	}
	if err := checkStatus(resp, apiErr, "update product price"); err != nil {
		return nil, err
	}

	return result, nil
}
