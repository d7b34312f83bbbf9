package strategy

import (
	"context"
	"errors"
	"strings"

	orderModel "digistore/internal/domain/order/model"
	"digistore/internal/pkg/config"

	"github.com/google/uuid"
)

// SandboxPrefix marks locally fabricated transactions. Anything carrying it
// must never be honored outside sandbox mode.
const SandboxPrefix = "SANDBOX-"

// SandboxStrategy approves payments locally without any provider. It exists
// for development and demo environments; the config validator refuses to
// start production with it enabled.
type SandboxStrategy struct {
	siteURL string
}

func NewSandboxStrategy() (*SandboxStrategy, error) {
	if !config.GlobalConfig.Gateway.Sandbox {
		return nil, errors.New("sandbox mode not enabled")
	}
	if config.GlobalConfig.App.Env == "production" {
		return nil, errors.New("sandbox strategy refused in production")
	}

	return &SandboxStrategy{
		siteURL: strings.TrimRight(config.GlobalConfig.App.BaseURL, "/"),
	}, nil
}

func (s *SandboxStrategy) Initiate(ctx context.Context, order *orderModel.Order) (*InitiateResult, error) {
	txn := SandboxPrefix + strings.ToUpper(uuid.New().String()[:12])
	return &InitiateResult{
		// the storefront's sandbox page immediately POSTs the callback
		PaymentURL:    s.siteURL + "/checkout/sandbox?order=" + order.ID + "&txn=" + txn,
		TransactionID: txn,
	}, nil
}

func (s *SandboxStrategy) Verify(ctx context.Context, transactionID string) (string, error) {
	if !s.Owns(transactionID) {
		return VerifyFailed, errors.New("not a sandbox transaction")
	}
	return VerifyCompleted, nil
}

func (s *SandboxStrategy) Owns(transactionID string) bool {
	return strings.HasPrefix(transactionID, SandboxPrefix)
}

var _ PaymentStrategy = (*SandboxStrategy)(nil)
