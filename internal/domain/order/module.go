package order

import (
	catalogRepo "digistore/internal/domain/catalog/repository"
	catalogService "digistore/internal/domain/catalog/service"
	couponRepo "digistore/internal/domain/coupon/repository"
	couponService "digistore/internal/domain/coupon/service"
	"digistore/internal/domain/order/handler"
	"digistore/internal/domain/order/repository"
	"digistore/internal/domain/order/service"
	siteconfigRepo "digistore/internal/domain/siteconfig/repository"
	siteconfigService "digistore/internal/domain/siteconfig/service"
	"digistore/internal/pkg/middleware"
	"digistore/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// OrderModule assembles and manages orders.
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	return 15
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewOrderRepository(ctx.DB)

	// raw SQL reports share the pool GORM already holds
	sqlDB, err := ctx.DB.DB()
	if err != nil {
		return err
	}
	reports := repository.NewReportRepository(sqlx.NewDb(sqlDB, "pgx"))

	catalog := catalogService.NewCatalogService(catalogRepo.NewCatalogRepository(ctx.DB), ctx.Cache)
	coupons := couponService.NewCouponService(couponRepo.NewCouponRepository(ctx.DB), ctx.Metrics)
	siteconfig := siteconfigService.NewSiteConfigService(siteconfigRepo.NewSiteConfigRepository(ctx.DB))

	svc := service.NewOrderService(repo, reports, catalog, coupons, siteconfig, ctx.Metrics)
	h := handler.NewOrderHandler(svc)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	r.POST("/api/orders", h.Create)
	r.GET("/api/orders/:id", h.Get)

	admin := r.Group("/api/admin/orders")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("", h.List)
		admin.GET("/report", h.Report)
		admin.PUT("/:id/status", h.UpdateStatus)
		admin.PUT("/:id/notes", h.UpdateNotes)
	}
}
