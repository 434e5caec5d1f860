package backend

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/mbdiagne/comptoir/internal/domain/models"
)

// InventoryService reads the flat per-location stock list. The terminal groups
// records by product on its side.
type InventoryService struct {
	http *resty.Client
}

// GetAll fetches every stock record across all warehouse locations.
func (s *InventoryService) GetAll(ctx context.Context) ([]models.StockRecord, error) {
	var records []models.StockRecord
	apiErr := new(apiError)

	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&records).
		SetError(apiErr).
		Get("/inventory")
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	if err := checkStatus(resp, apiErr, "fetch inventory"); err != nil {
		return nil, err
	}

	return records, nil
}
