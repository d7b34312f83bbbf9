package coupon

import (
	"digistore/internal/domain/coupon/handler"
	"digistore/internal/domain/coupon/repository"
	"digistore/internal/domain/coupon/service"
	"digistore/internal/pkg/middleware"
	"digistore/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CouponModule validates and manages discount codes.
type CouponModule struct{}

func init() {
	registry.Register(&CouponModule{})
}

func (m *CouponModule) Name() string {
	return "coupon"
}

func (m *CouponModule) Priority() int {
	// payment redeems coupons, so this initializes before it
	return 10
}

func (m *CouponModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewCouponRepository(ctx.DB)
	svc := service.NewCouponService(repo, ctx.Metrics)
	h := handler.NewCouponHandler(svc)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CouponHandler) {
	r.POST("/api/coupons/validate", h.Validate)

	admin := r.Group("/api/admin/coupons")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
