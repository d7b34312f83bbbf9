package strategy

import (
	"context"
	"errors"

	orderModel "digistore/internal/domain/order/model"
)

// InitiateResult is what the storefront needs to send the customer to the
// payment page.
type InitiateResult struct {
	PaymentURL    string
	TransactionID string
}

// Verification statuses normalized across strategies.
const (
	VerifyCompleted = "completed"
	VerifyPending   = "pending"
	VerifyFailed    = "failed"
)

// ErrGatewayUnavailable means the provider could not be reached even after
// the retry. The service decides whether a sandbox fallback applies.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// PaymentStrategy abstracts a payment provider.
type PaymentStrategy interface {
	// Initiate creates a charge for the order and returns the redirect URL.
	Initiate(ctx context.Context, order *orderModel.Order) (*InitiateResult, error)

	// Verify re-checks a transaction with the provider. Callback handling
	// never trusts the POSTed status alone.
	Verify(ctx context.Context, transactionID string) (string, error)

	// Owns reports whether this strategy issued the transaction id.
	Owns(transactionID string) bool
}
