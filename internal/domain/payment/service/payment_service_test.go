package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	couponModel "digistore/internal/domain/coupon/model"
	couponService "digistore/internal/domain/coupon/service"
	orderModel "digistore/internal/domain/order/model"
	"digistore/internal/domain/payment/strategy"
	"digistore/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *orderModel.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*orderModel.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderModel.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(orderNumber string) (*orderModel.Order, error) {
	args := m.Called(orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderModel.Order), args.Error(1)
}

func (m *MockOrderRepository) List(status string, offset, limit int) ([]orderModel.Order, int64, error) {
	args := m.Called(status, offset, limit)
	return args.Get(0).([]orderModel.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Update(order *orderModel.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkPaid(id, paymentID string, paidAt time.Time) error {
	args := m.Called(id, paymentID, paidAt)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkPaymentFailed(id, paymentID string) error {
	args := m.Called(id, paymentID)
	return args.Error(0)
}

// MockCouponService is a mock of CouponService
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) Validate(code string, subtotal float64, currency string) (*couponService.ValidationResult, error) {
	args := m.Called(code, subtotal, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*couponService.ValidationResult), args.Error(1)
}

func (m *MockCouponService) Redeem(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCouponService) Create(in couponService.CouponInput) (*couponModel.Coupon, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*couponModel.Coupon), args.Error(1)
}

func (m *MockCouponService) List(page utils.Pagination) (*utils.PageResult, error) {
	args := m.Called(page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.PageResult), args.Error(1)
}

func (m *MockCouponService) Update(id string, in couponService.CouponInput) (*couponModel.Coupon, error) {
	args := m.Called(id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*couponModel.Coupon), args.Error(1)
}

func (m *MockCouponService) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockStrategy is a mock of PaymentStrategy
type MockStrategy struct {
	mock.Mock
}

func (m *MockStrategy) Initiate(ctx context.Context, order *orderModel.Order) (*strategy.InitiateResult, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*strategy.InitiateResult), args.Error(1)
}

func (m *MockStrategy) Verify(ctx context.Context, transactionID string) (string, error) {
	args := m.Called(ctx, transactionID)
	return args.String(0), args.Error(1)
}

func (m *MockStrategy) Owns(transactionID string) bool {
	args := m.Called(transactionID)
	return args.Bool(0)
}

// fakeDeduper is an in-memory callbackDeduper
type fakeDeduper struct {
	mu   sync.Mutex
	held map[string]bool
}

func (f *fakeDeduper) Acquire(_ context.Context, transactionID, _ string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held == nil {
		f.held = make(map[string]bool)
	}
	if f.held[transactionID] {
		return false
	}
	f.held[transactionID] = true
	return true
}

func (f *fakeDeduper) Release(transactionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, transactionID)
}

func (f *fakeDeduper) holds(transactionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.held[transactionID]
}

func pendingOrder() *orderModel.Order {
	o := &orderModel.Order{
		OrderNumber:   "DG-20250615-ABCD1234",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		Total:         40,
		Currency:      "USD",
		Status:        orderModel.StatusPending,
		PaymentStatus: orderModel.PaymentPending,
	}
	o.ID = "order-1"
	return o
}

func paidOrder() *orderModel.Order {
	o := pendingOrder()
	o.PaymentStatus = orderModel.PaymentPaid
	o.Status = orderModel.StatusProcessing
	return o
}

func TestInitiate(t *testing.T) {
	ctx := context.Background()

	t.Run("Gateway success is not degraded", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockGateway := new(MockStrategy)
		service := NewPaymentService(mockOrders, new(MockCouponService), mockGateway, nil, nil, nil, nil)

		mockOrders.On("GetByID", "order-1").Return(pendingOrder(), nil)
		mockGateway.On("Initiate", ctx, mock.AnythingOfType("*model.Order")).Return(&strategy.InitiateResult{
			PaymentURL:    "https://pay.example.com/c/abc",
			TransactionID: "txn-abc",
		}, nil)

		result, err := service.Initiate(ctx, "order-1")

		assert.NoError(t, err)
		assert.False(t, result.DegradedMode)
		assert.Equal(t, "txn-abc", result.TransactionID)
		mockGateway.AssertExpectations(t)
	})

	t.Run("Unreachable gateway falls back to sandbox as degraded", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockGateway := new(MockStrategy)
		mockSandbox := new(MockStrategy)
		service := NewPaymentService(mockOrders, new(MockCouponService), mockGateway, mockSandbox, nil, nil, nil)

		mockOrders.On("GetByID", "order-1").Return(pendingOrder(), nil)
		mockGateway.On("Initiate", ctx, mock.AnythingOfType("*model.Order")).Return(nil, strategy.ErrGatewayUnavailable)
		mockSandbox.On("Initiate", ctx, mock.AnythingOfType("*model.Order")).Return(&strategy.InitiateResult{
			PaymentURL:    "/checkout/sandbox?txn=SANDBOX-1",
			TransactionID: "SANDBOX-1",
		}, nil)

		result, err := service.Initiate(ctx, "order-1")

		assert.NoError(t, err)
		assert.True(t, result.DegradedMode)
		assert.Equal(t, "SANDBOX-1", result.TransactionID)
	})

	t.Run("Unreachable gateway without sandbox fails closed", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockGateway := new(MockStrategy)
		service := NewPaymentService(mockOrders, new(MockCouponService), mockGateway, nil, nil, nil, nil)

		mockOrders.On("GetByID", "order-1").Return(pendingOrder(), nil)
		mockGateway.On("Initiate", ctx, mock.AnythingOfType("*model.Order")).Return(nil, strategy.ErrGatewayUnavailable)

		_, err := service.Initiate(ctx, "order-1")

		assert.ErrorIs(t, err, ErrInitiateFailed)
	})

	t.Run("Gateway 4xx is not retried against sandbox", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockGateway := new(MockStrategy)
		mockSandbox := new(MockStrategy)
		service := NewPaymentService(mockOrders, new(MockCouponService), mockGateway, mockSandbox, nil, nil, nil)

		mockOrders.On("GetByID", "order-1").Return(pendingOrder(), nil)
		mockGateway.On("Initiate", ctx, mock.AnythingOfType("*model.Order")).Return(nil, assert.AnError)

		_, err := service.Initiate(ctx, "order-1")

		assert.ErrorIs(t, err, ErrInitiateFailed)
		mockSandbox.AssertNotCalled(t, "Initiate", mock.Anything, mock.Anything)
	})

	t.Run("Settled order refused", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		service := NewPaymentService(mockOrders, new(MockCouponService), new(MockStrategy), nil, nil, nil, nil)

		mockOrders.On("GetByID", "order-1").Return(paidOrder(), nil)

		_, err := service.Initiate(ctx, "order-1")

		assert.ErrorIs(t, err, ErrAlreadySettled)
	})
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful payment marks paid and redeems coupon once", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockCoupons := new(MockCouponService)
		mockGateway := new(MockStrategy)
		service := NewPaymentService(mockOrders, mockCoupons, mockGateway, nil, nil, nil, nil)

		order := pendingOrder()
		couponID := "coupon-1"
		order.CouponID = &couponID

		mockOrders.On("GetByID", "order-1").Return(order, nil).Once()
		mockGateway.On("Owns", "txn-abc").Return(true)
		mockGateway.On("Verify", ctx, "txn-abc").Return(strategy.VerifyCompleted, nil)
		mockOrders.On("MarkPaid", "order-1", "txn-abc", mock.AnythingOfType("time.Time")).Return(nil)
		mockCoupons.On("Redeem", "coupon-1").Return(nil).Once()
		mockOrders.On("GetByID", "order-1").Return(paidOrder(), nil)

		result, err := service.HandleCallback(ctx, "txn-abc", "order-1", "completed")

		assert.NoError(t, err)
		assert.Equal(t, orderModel.PaymentPaid, result.PaymentStatus)
		mockCoupons.AssertNumberOfCalls(t, "Redeem", 1)
	})

	t.Run("Replay on settled order is a no-op", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockCoupons := new(MockCouponService)
		mockGateway := new(MockStrategy)
		service := NewPaymentService(mockOrders, mockCoupons, mockGateway, nil, nil, nil, nil)

		order := paidOrder()
		couponID := "coupon-1"
		order.CouponID = &couponID
		mockOrders.On("GetByID", "order-1").Return(order, nil)

		result, err := service.HandleCallback(ctx, "txn-abc", "order-1", "completed")

		assert.NoError(t, err)
		assert.Equal(t, orderModel.PaymentPaid, result.PaymentStatus)
		mockCoupons.AssertNotCalled(t, "Redeem", mock.Anything)
		mockOrders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
		mockGateway.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("Verification failure marks payment failed", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockGateway := new(MockStrategy)
		service := NewPaymentService(mockOrders, new(MockCouponService), mockGateway, nil, nil, nil, nil)

		order := pendingOrder()
		mockOrders.On("GetByID", "order-1").Return(order, nil).Once()
		mockGateway.On("Owns", "txn-abc").Return(true)
		mockGateway.On("Verify", ctx, "txn-abc").Return(strategy.VerifyFailed, nil)
		mockOrders.On("MarkPaymentFailed", "order-1", "txn-abc").Return(nil)

		failed := pendingOrder()
		failed.PaymentStatus = orderModel.PaymentFailed
		mockOrders.On("GetByID", "order-1").Return(failed, nil)

		result, err := service.HandleCallback(ctx, "txn-abc", "order-1", "completed")

		assert.NoError(t, err)
		assert.Equal(t, orderModel.PaymentFailed, result.PaymentStatus)
	})

	t.Run("Posted status never trusted over verification", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockGateway := new(MockStrategy)
		service := NewPaymentService(mockOrders, new(MockCouponService), mockGateway, nil, nil, nil, nil)

		mockOrders.On("GetByID", "order-1").Return(pendingOrder(), nil)
		mockGateway.On("Owns", "txn-abc").Return(true)
		mockGateway.On("Verify", ctx, "txn-abc").Return(strategy.VerifyPending, nil)

		result, err := service.HandleCallback(ctx, "txn-abc", "order-1", "completed")

		assert.NoError(t, err)
		assert.Equal(t, orderModel.PaymentPending, result.PaymentStatus)
		mockOrders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
		mockOrders.AssertNotCalled(t, "MarkPaymentFailed", mock.Anything, mock.Anything)
	})

	t.Run("Posted failure on a verified payment still settles", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockGateway := new(MockStrategy)
		service := NewPaymentService(mockOrders, new(MockCouponService), mockGateway, nil, nil, nil, nil)

		mockOrders.On("GetByID", "order-1").Return(pendingOrder(), nil).Once()
		mockGateway.On("Owns", "txn-abc").Return(true)
		mockGateway.On("Verify", ctx, "txn-abc").Return(strategy.VerifyCompleted, nil)
		mockOrders.On("MarkPaid", "order-1", "txn-abc", mock.AnythingOfType("time.Time")).Return(nil)
		mockOrders.On("GetByID", "order-1").Return(paidOrder(), nil)

		result, err := service.HandleCallback(ctx, "txn-abc", "order-1", "failed")

		assert.NoError(t, err)
		assert.Equal(t, orderModel.PaymentPaid, result.PaymentStatus)
		mockOrders.AssertNotCalled(t, "MarkPaymentFailed", mock.Anything, mock.Anything)
	})

	t.Run("Pending verification leaves the order settleable", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockGateway := new(MockStrategy)
		dedup := &fakeDeduper{}
		service := NewPaymentService(mockOrders, new(MockCouponService), mockGateway, nil, nil, nil, nil)
		service.(*paymentService).dedup = dedup

		mockOrders.On("GetByID", "order-1").Return(pendingOrder(), nil).Times(2)
		mockGateway.On("Owns", "txn-abc").Return(true)
		mockGateway.On("Verify", ctx, "txn-abc").Return(strategy.VerifyPending, nil).Once()

		first, err := service.HandleCallback(ctx, "txn-abc", "order-1", "pending")
		assert.NoError(t, err)
		assert.Equal(t, orderModel.PaymentPending, first.PaymentStatus)
		mockOrders.AssertNotCalled(t, "MarkPaymentFailed", mock.Anything, mock.Anything)

		// the provider settles and calls back again; nothing may block it
		mockGateway.On("Verify", ctx, "txn-abc").Return(strategy.VerifyCompleted, nil).Once()
		mockOrders.On("MarkPaid", "order-1", "txn-abc", mock.AnythingOfType("time.Time")).Return(nil)
		mockOrders.On("GetByID", "order-1").Return(paidOrder(), nil)

		second, err := service.HandleCallback(ctx, "txn-abc", "order-1", "completed")
		assert.NoError(t, err)
		assert.Equal(t, orderModel.PaymentPaid, second.PaymentStatus)
	})

	t.Run("Verification error releases the duplicate marker", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockGateway := new(MockStrategy)
		dedup := &fakeDeduper{}
		service := NewPaymentService(mockOrders, new(MockCouponService), mockGateway, nil, nil, nil, nil)
		service.(*paymentService).dedup = dedup

		mockOrders.On("GetByID", "order-1").Return(pendingOrder(), nil).Times(2)
		mockGateway.On("Owns", "txn-abc").Return(true)
		mockGateway.On("Verify", ctx, "txn-abc").Return("", errors.New("gateway timeout")).Once()

		_, err := service.HandleCallback(ctx, "txn-abc", "order-1", "completed")
		assert.ErrorIs(t, err, ErrVerifyMismatch)
		assert.False(t, dedup.holds("txn-abc"))

		mockGateway.On("Verify", ctx, "txn-abc").Return(strategy.VerifyCompleted, nil).Once()
		mockOrders.On("MarkPaid", "order-1", "txn-abc", mock.AnythingOfType("time.Time")).Return(nil)
		mockOrders.On("GetByID", "order-1").Return(paidOrder(), nil)

		retried, err := service.HandleCallback(ctx, "txn-abc", "order-1", "completed")
		assert.NoError(t, err)
		assert.Equal(t, orderModel.PaymentPaid, retried.PaymentStatus)
	})

	t.Run("Concurrent duplicate blocked by the marker", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockGateway := new(MockStrategy)
		dedup := &fakeDeduper{}
		dedup.Acquire(ctx, "txn-abc", "order-1")
		service := NewPaymentService(mockOrders, new(MockCouponService), mockGateway, nil, nil, nil, nil)
		service.(*paymentService).dedup = dedup

		mockOrders.On("GetByID", "order-1").Return(pendingOrder(), nil)

		result, err := service.HandleCallback(ctx, "txn-abc", "order-1", "completed")

		assert.NoError(t, err)
		assert.Equal(t, orderModel.PaymentPending, result.PaymentStatus)
		mockGateway.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("Unknown transaction id rejected", func(t *testing.T) {
		mockOrders := new(MockOrderRepository)
		mockGateway := new(MockStrategy)
		service := NewPaymentService(mockOrders, new(MockCouponService), mockGateway, nil, nil, nil, nil)

		mockOrders.On("GetByID", "order-1").Return(pendingOrder(), nil)
		mockGateway.On("Owns", "txn-stranger").Return(false)

		_, err := service.HandleCallback(ctx, "txn-stranger", "order-1", "completed")

		assert.ErrorIs(t, err, ErrUnknownTxn)
	})
}
