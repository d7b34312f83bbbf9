package strategy

import (
	"context"
	"strings"
	"testing"

	"digistore/internal/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestNewSandboxStrategy(t *testing.T) {
	original := config.GlobalConfig
	defer func() { config.GlobalConfig = original }()

	t.Run("Refused when sandbox mode is off", func(t *testing.T) {
		config.GlobalConfig.Gateway.Sandbox = false
		config.GlobalConfig.App.Env = "dev"

		_, err := NewSandboxStrategy()

		assert.Error(t, err)
	})

	t.Run("Refused in production even when enabled", func(t *testing.T) {
		config.GlobalConfig.Gateway.Sandbox = true
		config.GlobalConfig.App.Env = "production"

		_, err := NewSandboxStrategy()

		assert.Error(t, err)
	})

	t.Run("Allowed in dev with sandbox on", func(t *testing.T) {
		config.GlobalConfig.Gateway.Sandbox = true
		config.GlobalConfig.App.Env = "dev"
		config.GlobalConfig.App.BaseURL = "http://localhost:8080/"

		s, err := NewSandboxStrategy()

		assert.NoError(t, err)
		assert.NotNil(t, s)
	})
}

func TestSandboxTransactions(t *testing.T) {
	original := config.GlobalConfig
	defer func() { config.GlobalConfig = original }()

	config.GlobalConfig.Gateway.Sandbox = true
	config.GlobalConfig.App.Env = "dev"
	config.GlobalConfig.App.BaseURL = "http://localhost:8080"

	s, err := NewSandboxStrategy()
	assert.NoError(t, err)

	t.Run("Transactions carry the sandbox prefix", func(t *testing.T) {
		order := newTestOrder()

		result, err := s.Initiate(context.Background(), order)

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(result.TransactionID, SandboxPrefix))
		assert.Contains(t, result.PaymentURL, "/checkout/sandbox")
	})

	t.Run("Verify accepts only owned transactions", func(t *testing.T) {
		status, err := s.Verify(context.Background(), "SANDBOX-ABC123")
		assert.NoError(t, err)
		assert.Equal(t, VerifyCompleted, status)

		status, err = s.Verify(context.Background(), "txn-from-gateway")
		assert.Error(t, err)
		assert.Equal(t, VerifyFailed, status)
	})

	t.Run("Owns matches the prefix only", func(t *testing.T) {
		assert.True(t, s.Owns("SANDBOX-XYZ"))
		assert.False(t, s.Owns("txn-real"))
	})
}
