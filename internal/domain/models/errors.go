package models

import (
	"errors"
	"strings"
)

// Local cart errors. These abort only the offending mutation and leave the
// rest of the cart intact.
var (
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrStockLimitExceeded = errors.New("requested quantity exceeds available stock")
	ErrLineNotFound       = errors.New("cart line not found")
	ErrUnknownProduct     = errors.New("unknown product")
	ErrUnknownCustomer    = errors.New("unknown customer")
)

// Discount application errors.
var (
	ErrDiscountNotFound       = errors.New("discount not found")
	ErrDiscountAlreadyApplied = errors.New("discount already applied")
	ErrDiscountNotApplicable  = errors.New("discount not applicable to current cart")
)

// Remote collaborator errors. ErrRemotePaymentFailed is soft: the sale already
// exists remotely, so callers surface it as a warning rather than rolling back.
var (
	ErrRemoteSaleFailed           = errors.New("remote sale creation failed")
	ErrRemoteHoldFailed           = errors.New("remote sale hold failed")
	ErrRemotePaymentFailed        = errors.New("remote payment record creation failed")
	ErrRemoteCustomerCreateFailed = errors.New("remote customer creation failed")
)

// ValidationError aborts sale completion before any remote call is made. Every
// reason is a human-readable sentence suitable for direct display.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "sale validation failed: " + strings.Join(e.Reasons, " ")
}
