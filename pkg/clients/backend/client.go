package backend

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mbdiagne/comptoir/internal/config"
)

// Client talks to the remote retail REST API. Each collaborator surface
// (products, inventory, customers, discounts, sales, payments) is exposed as a
// dedicated service sharing one underlying HTTP client.
type Client struct {
	Products  *ProductsService
	Inventory *InventoryService
	Customers *CustomersService
	Discounts *DiscountsService
	Sales     *SalesService
	Payments  *PaymentsService
}

// New builds a backend API client using the provided configuration values.
func New(cfg config.BackendConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	if cfg.APIKey != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))
	}

	return &Client{
		Products:  &ProductsService{http: restyClient},
		Inventory: &InventoryService{http: restyClient},
		Customers: &CustomersService{http: restyClient},
		Discounts: &DiscountsService{http: restyClient},
		Sales:     &SalesService{http: restyClient},
		Payments:  &PaymentsService{http: restyClient},
	}
}

// apiError represents the backend's error payload.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// checkStatus converts a non-2xx response into an error carrying the backend's
// message when one was decoded.
func checkStatus(resp *resty.Response, apiErr *apiError, op string) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}

	message := ""
	if apiErr != nil {
		message = apiErr.Message
	}
	return fmt.Errorf("%s: backend returned status=%d message=%q", op, resp.StatusCode(), message)
}
