package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	orderModel "digistore/internal/domain/order/model"
	"digistore/internal/pkg/config"
	"digistore/pkg/logger"

	"go.uber.org/zap"
)

// GatewayStrategy talks to the real payment provider over its JSON API.
type GatewayStrategy struct {
	client  *http.Client
	baseURL string
	apiKey  string
	siteURL string
}

func NewGatewayStrategy() (*GatewayStrategy, error) {
	cfg := config.GlobalConfig.Gateway
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, errors.New("gateway config missing")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &GatewayStrategy{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		siteURL: strings.TrimRight(config.GlobalConfig.App.BaseURL, "/"),
	}, nil
}

type createChargeRequest struct {
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	OrderID       string `json:"order_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	SuccessURL    string `json:"success_url"`
	CancelURL     string `json:"cancel_url"`
	CallbackURL   string `json:"callback_url"`
}

type createChargeResponse struct {
	Status        bool   `json:"status"`
	PaymentURL    string `json:"payment_url"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

func (s *GatewayStrategy) Initiate(ctx context.Context, order *orderModel.Order) (*InitiateResult, error) {
	payload := createChargeRequest{
		Amount:        fmt.Sprintf("%.2f", order.Total),
		Currency:      order.Currency,
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		SuccessURL:    s.siteURL + "/checkout/success?order=" + order.ID,
		CancelURL:     s.siteURL + "/checkout/cancel?order=" + order.ID,
		CallbackURL:   s.siteURL + "/api/payment/callback",
	}

	var resp createChargeResponse
	if err := s.post(ctx, "/api/checkout/create", payload, &resp); err != nil {
		return nil, err
	}

	if !resp.Status || resp.PaymentURL == "" {
		if resp.Message == "" {
			resp.Message = "charge rejected"
		}
		return nil, fmt.Errorf("gateway rejected charge: %s", resp.Message)
	}

	return &InitiateResult{
		PaymentURL:    resp.PaymentURL,
		TransactionID: resp.TransactionID,
	}, nil
}

type verifyResponse struct {
	Status string `json:"status"` // COMPLETED | PENDING | ERROR
}

func (s *GatewayStrategy) Verify(ctx context.Context, transactionID string) (string, error) {
	var resp verifyResponse
	payload := map[string]string{"transaction_id": transactionID}
	if err := s.post(ctx, "/api/verify-payment", payload, &resp); err != nil {
		return "", err
	}

	switch strings.ToUpper(resp.Status) {
	case "COMPLETED":
		return VerifyCompleted, nil
	case "PENDING":
		return VerifyPending, nil
	default:
		return VerifyFailed, nil
	}
}

func (s *GatewayStrategy) Owns(transactionID string) bool {
	return !strings.HasPrefix(transactionID, SandboxPrefix)
}

// post sends one JSON request with a single retry on transient failures.
// Non-transient provider errors (4xx, malformed body) are not retried.
func (s *GatewayStrategy) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			// brief backoff before the single retry
			select {
			case <-time.After(500 * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = s.doOnce(ctx, path, body, out)
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) {
			return lastErr
		}

		logger.Warn("Gateway request failed, retrying",
			zap.String("path", path),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}

	return fmt.Errorf("%w: %v", ErrGatewayUnavailable, lastErr)
}

func (s *GatewayStrategy) doOnce(ctx context.Context, path string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("RT-UDDOKTAPAY-API-KEY", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("gateway returned %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &providerError{code: resp.StatusCode, body: string(data)}
	}

	return json.Unmarshal(data, out)
}

type providerError struct {
	code int
	body string
}

func (e *providerError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.code, e.body)
}

// isTransient classifies errors worth a retry: timeouts, DNS/conn failures,
// and provider 5xx. Provider 4xx means the request itself is wrong.
func isTransient(err error) bool {
	var pErr *providerError
	if errors.As(err, &pErr) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// url.Error wrapping a connection refusal etc.
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "no such host") ||
		strings.Contains(err.Error(), "returned 5")
}

var _ PaymentStrategy = (*GatewayStrategy)(nil)
