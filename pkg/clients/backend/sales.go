package backend

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/mbdiagne/comptoir/internal/domain/models"
)

// SalesService submits finalized and held sales. The backend is the final
// arbiter on stock and may reject a sale the terminal believed valid.
type SalesService struct {
	http *resty.Client
}

// Create submits a finalized sale. Failures wrap ErrRemoteSaleFailed.
func (s *SalesService) Create(ctx context.Context, sale models.Sale) (*models.Sale, error) {
	result := new(models.Sale)
	apiErr := new(apiError)

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(sale).
		SetResult(result).
		SetError(apiErr).
		Post("/sales")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrRemoteSaleFailed, err)
	}
	if err := checkStatus(resp, apiErr, "create sale"); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrRemoteSaleFailed, err)
	}

	return result, nil
}

// Hold parks an in-progress cart under a hold reference for later completion.
func (s *SalesService) Hold(ctx context.Context, sale models.Sale) (*models.Sale, error) {
	result := new(models.Sale)
	apiErr := new(apiError)

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(sale).
		SetResult(result).
		SetError(apiErr).
		Post("/sales/hold")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrRemoteHoldFailed, err)
	}
	if err := checkStatus(resp, apiErr, "hold sale"); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrRemoteHoldFailed, err)
	}

	return result, nil
}
