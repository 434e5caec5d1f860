package backend

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/mbdiagne/comptoir/internal/domain/models"
)

// PaymentsService records payments against already-created sales.
type PaymentsService struct {
	http *resty.Client
}

// Create submits a payment record referencing an existing invoice. Failures
// wrap ErrRemotePaymentFailed; by design the caller treats them as a warning,
// never as grounds to roll the sale back.
func (s *PaymentsService) Create(ctx context.Context, record models.PaymentRecord) (*models.PaymentRecord, error) {
	result := new(models.PaymentRecord)
	apiErr := new(apiError)

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(record).
		SetResult(result).
		SetError(apiErr).
		Post("/sales/payments")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrRemotePaymentFailed, err)
	}
	if err := checkStatus(resp, apiErr, "create payment record"); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrRemotePaymentFailed, err)
	}

	return result, nil
}
