package backend

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/mbdiagne/comptoir/internal/domain/models"
)

// CustomersService exposes the remote customer directory.
type CustomersService struct {
	http *resty.Client
}

// CreateCustomerRequest carries the fields the terminal can register for a new
// walk-in customer.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// GetAll fetches the customer directory.
func (s *CustomersService) GetAll(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	apiErr := new(apiError)

	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&customers).
		SetError(apiErr).
		Get("/customers")
	if err != nil {
		return nil, fmt.Errorf("fetch customers: %w", err)
	}
	if err := checkStatus(resp, apiErr, "fetch customers"); err != nil {
		return nil, err
	}

	return customers, nil
}

// Create registers a new customer. Failures wrap ErrRemoteCustomerCreateFailed
// so callers can map them without string matching.
func (s *CustomersService) Create(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error) {
	result := new(models.Customer)
	apiErr := new(apiError)

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(result).
		SetError(apiErr).
		Post("/customers")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrRemoteCustomerCreateFailed, err)
	}
	if err := checkStatus(resp, apiErr, "create customer"); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrRemoteCustomerCreateFailed, err)
	}

	return result, nil
}
