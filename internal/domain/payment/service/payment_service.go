package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	couponRepo "digistore/internal/domain/coupon/repository"
	couponService "digistore/internal/domain/coupon/service"
	orderModel "digistore/internal/domain/order/model"
	orderRepo "digistore/internal/domain/order/repository"
	"digistore/internal/domain/payment/strategy"
	"digistore/internal/pkg/worker"
	"digistore/pkg/logger"
	"digistore/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrAlreadySettled = errors.New("order payment already settled")
	ErrNoStrategy     = errors.New("no payment strategy available")
	ErrUnknownTxn     = errors.New("unknown transaction id")
	ErrInitiateFailed = errors.New("payment initiation failed")
	ErrVerifyMismatch = errors.New("gateway verification did not confirm payment")
)

// InitiateResult is returned to the storefront. DegradedMode flags sandbox
// fallbacks loudly instead of letting them look like real payments.
type InitiateResult struct {
	PaymentURL    string `json:"payment_url"`
	TransactionID string `json:"transaction_id"`
	DegradedMode  bool   `json:"degraded_mode"`
}

type PaymentService interface {
	Initiate(ctx context.Context, orderID string) (*InitiateResult, error)
	HandleCallback(ctx context.Context, transactionID, orderID, status string) (*orderModel.Order, error)
}

// callbackDeduper guards against concurrent duplicate callbacks for the
// same transaction. The marker must be released whenever the callback
// leaves the order pending, otherwise a legitimate retry cannot settle it.
type callbackDeduper interface {
	Acquire(ctx context.Context, transactionID, orderID string) bool
	Release(transactionID string)
}

type redisDeduper struct {
	rdb *redis.Client
}

func (d *redisDeduper) Acquire(ctx context.Context, transactionID, orderID string) bool {
	ok, err := d.rdb.SetNX(ctx, "payment:callback:"+transactionID, orderID, 24*time.Hour).Result()
	if err != nil {
		// redis down is not a reason to drop a callback; the DB pending
		// guard still prevents double settlement
		return true
	}
	return ok
}

func (d *redisDeduper) Release(transactionID string) {
	d.rdb.Del(context.Background(), "payment:callback:"+transactionID)
}

type paymentService struct {
	orders  orderRepo.OrderRepository
	coupons couponService.CouponService
	gateway strategy.PaymentStrategy // nil when unconfigured
	sandbox strategy.PaymentStrategy // nil outside sandbox mode
	dedup   callbackDeduper
	pool    *worker.Pool
	metrics *metrics.Collector
}

func NewPaymentService(
	orders orderRepo.OrderRepository,
	coupons couponService.CouponService,
	gateway, sandbox strategy.PaymentStrategy,
	rdb *redis.Client,
	pool *worker.Pool,
	collector *metrics.Collector,
) PaymentService {
	var dedup callbackDeduper
	if rdb != nil {
		dedup = &redisDeduper{rdb: rdb}
	}
	return &paymentService{
		orders:  orders,
		coupons: coupons,
		gateway: gateway,
		sandbox: sandbox,
		dedup:   dedup,
		pool:    pool,
		metrics: collector,
	}
}

// Initiate creates a charge for a pending order. When the real gateway is
// unreachable and sandbox mode is on, it falls back to the sandbox strategy
// and marks the result degraded. Without sandbox mode it fails closed.
func (s *paymentService) Initiate(ctx context.Context, orderID string) (*InitiateResult, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.PaymentStatus != orderModel.PaymentPending {
		return nil, ErrAlreadySettled
	}

	if s.gateway != nil {
		result, err := s.gateway.Initiate(ctx, order)
		if err == nil {
			return &InitiateResult{
				PaymentURL:    result.PaymentURL,
				TransactionID: result.TransactionID,
			}, nil
		}

		if !errors.Is(err, strategy.ErrGatewayUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrInitiateFailed, err)
		}

		logger.Error("Payment gateway unreachable",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)

		if s.sandbox == nil {
			// fail closed: an unreachable gateway must not become a free order
			return nil, fmt.Errorf("%w: %v", ErrInitiateFailed, err)
		}
	}

	if s.sandbox == nil {
		return nil, ErrNoStrategy
	}

	result, err := s.sandbox.Initiate(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitiateFailed, err)
	}

	if s.metrics != nil {
		s.metrics.RecordDegradedInitiation()
	}
	logger.Warn("Payment initiated in degraded sandbox mode",
		zap.String("order_id", order.ID),
		zap.String("transaction_id", result.TransactionID),
	)

	return &InitiateResult{
		PaymentURL:    result.PaymentURL,
		TransactionID: result.TransactionID,
		DegradedMode:  true,
	}, nil
}

// HandleCallback settles an order from a provider webhook/redirect. The
// posted status is re-verified with the owning strategy; only a definitive
// failed verification marks the order failed, a pending one leaves the
// order settleable by a later callback. The DB-level pending guard plus
// the dedup marker make replays no-ops.
func (s *paymentService) HandleCallback(ctx context.Context, transactionID, orderID, status string) (*orderModel.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	// idempotence: a settled order is returned as-is, nothing re-runs
	if order.PaymentStatus != orderModel.PaymentPending {
		return order, nil
	}

	// dedupe concurrent duplicate callbacks; the marker is released on any
	// outcome that leaves the order pending so a retry can still settle it
	if s.dedup != nil {
		if !s.dedup.Acquire(ctx, transactionID, orderID) {
			return order, nil
		}
	}
	release := func() {
		if s.dedup != nil {
			s.dedup.Release(transactionID)
		}
	}

	strat := s.strategyFor(transactionID)
	if strat == nil {
		release()
		return nil, ErrUnknownTxn
	}

	verified, err := strat.Verify(ctx, transactionID)
	if err != nil {
		release()
		return nil, fmt.Errorf("%w: %v", ErrVerifyMismatch, err)
	}

	switch verified {
	case strategy.VerifyFailed:
		if err := s.orders.MarkPaymentFailed(order.ID, transactionID); err != nil {
			release()
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.RecordPayment("failed")
		}
		return s.orders.GetByID(order.ID)
	case strategy.VerifyCompleted:
		// settle below
	default:
		// still pending at the provider; leave the order pending so a
		// later callback for the same transaction can complete it
		release()
		return order, nil
	}

	// the verified result wins over whatever the redirect posted
	if status != "" && status != strategy.VerifyCompleted {
		logger.Warn("Callback status disagrees with gateway verification",
			zap.String("transaction_id", transactionID),
			zap.String("posted_status", status),
		)
	}

	now := time.Now()
	if err := s.orders.MarkPaid(order.ID, transactionID, now); err != nil {
		release()
		return nil, err
	}

	// coupon usage counts paid orders only, incremented exactly here
	if order.CouponID != nil {
		if err := s.coupons.Redeem(*order.CouponID); err != nil {
			if errors.Is(err, couponRepo.ErrLimitReached) {
				// the order stays paid; the code just oversold by one
				logger.Warn("Coupon limit reached at redemption",
					zap.String("coupon_id", *order.CouponID),
					zap.String("order_id", order.ID),
				)
			} else {
				logger.Error("Coupon redemption failed",
					zap.String("coupon_id", *order.CouponID),
					zap.Error(err),
				)
			}
		}
	}

	if s.metrics != nil {
		s.metrics.RecordPayment("paid")
	}

	if s.pool != nil {
		s.pool.Enqueue(worker.MailTask{
			To:      order.CustomerEmail,
			Subject: fmt.Sprintf("Order %s confirmed", order.OrderNumber),
			Body: fmt.Sprintf(
				"Thanks %s! Your payment of %.2f %s for order %s was received. Your items will be delivered by email shortly.",
				order.CustomerName, order.Total, order.Currency, order.OrderNumber),
		})
	}

	return s.orders.GetByID(order.ID)
}

func (s *paymentService) strategyFor(transactionID string) strategy.PaymentStrategy {
	if s.sandbox != nil && s.sandbox.Owns(transactionID) {
		return s.sandbox
	}
	if s.gateway != nil && s.gateway.Owns(transactionID) {
		return s.gateway
	}
	return nil
}
