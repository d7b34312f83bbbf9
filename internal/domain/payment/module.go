package payment

import (
	couponRepo "digistore/internal/domain/coupon/repository"
	couponService "digistore/internal/domain/coupon/service"
	orderRepo "digistore/internal/domain/order/repository"
	"digistore/internal/domain/payment/handler"
	"digistore/internal/domain/payment/service"
	"digistore/internal/domain/payment/strategy"
	"digistore/internal/pkg/config"
	"digistore/internal/pkg/mailer"
	"digistore/internal/pkg/registry"
	"digistore/internal/pkg/worker"
	"digistore/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PaymentModule handles gateway handoff and settlement callbacks.
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// depends on order and coupon
	return 20
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	orders := orderRepo.NewOrderRepository(ctx.DB)
	coupons := couponService.NewCouponService(couponRepo.NewCouponRepository(ctx.DB), ctx.Metrics)

	var gateway strategy.PaymentStrategy
	if config.GlobalConfig.Gateway.BaseURL != "" && config.GlobalConfig.Gateway.APIKey != "" {
		g, err := strategy.NewGatewayStrategy()
		if err != nil {
			logger.Error("Failed to init gateway strategy: " + err.Error())
		} else {
			gateway = g
		}
	}

	var sandbox strategy.PaymentStrategy
	if config.GlobalConfig.Gateway.Sandbox {
		sb, err := strategy.NewSandboxStrategy()
		if err != nil {
			logger.Error("Failed to init sandbox strategy: " + err.Error())
		} else {
			sandbox = sb
			logger.Warn("Sandbox payment strategy enabled; payments are NOT real")
		}
	}

	pool := worker.NewPool(mailer.NewMailer(), 3, 500)
	pool.Start()

	svc := service.NewPaymentService(orders, coupons, gateway, sandbox, ctx.Redis, pool, ctx.Metrics)
	h := handler.NewPaymentHandler(svc)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler) {
	g := r.Group("/api/payment")
	{
		g.POST("/initiate", h.Initiate)
		g.POST("/callback", h.Callback)
	}
}
