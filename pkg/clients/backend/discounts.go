package backend

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/mbdiagne/comptoir/internal/domain/models"
)

// DiscountsService reads the active promotional offers. The server filters to
// status=Active; applicability against the cart is decided client-side.
type DiscountsService struct {
	http *resty.Client
}

// GetActive fetches the currently active discounts.
func (s *DiscountsService) GetActive(ctx context.Context) ([]models.Discount, error) {
	var discounts []models.Discount
	apiErr := new(apiError)

	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("status", string(models.DiscountActive)).
		SetResult(&discounts).
		SetError(apiErr).
		Get("/discounts")
	if err != nil {
		return nil, fmt.Errorf("fetch active discounts: %w", err)
	}
	if err := checkStatus(resp, apiErr, "fetch active discounts"); err != nil {
		return nil, err
	}

	return discounts, nil
}
