package hotdeal

import (
	catalogRepository "digistore/internal/domain/catalog/repository"
	catalogService "digistore/internal/domain/catalog/service"
	"digistore/internal/domain/hotdeal/handler"
	"digistore/internal/domain/hotdeal/repository"
	"digistore/internal/domain/hotdeal/service"
	"digistore/internal/pkg/middleware"
	"digistore/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// HotDealModule serves the storefront deals strip.
type HotDealModule struct{}

func init() {
	registry.Register(&HotDealModule{})
}

func (m *HotDealModule) Name() string {
	return "hotdeal"
}

func (m *HotDealModule) Priority() int {
	// after catalog; deals resolve against live products
	return 12
}

func (m *HotDealModule) Init(ctx *registry.ModuleContext) error {
	catalogSvc := catalogService.NewCatalogService(catalogRepository.NewCatalogRepository(ctx.DB), ctx.Cache)

	repo := repository.NewHotDealRepository(ctx.DB)
	svc := service.NewHotDealService(repo, catalogSvc)
	h := handler.NewHotDealHandler(svc)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.HotDealHandler) {
	r.GET("/api/hot-deals", h.ListActive)

	admin := r.Group("/api/admin/hot-deals")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("", h.ListAll)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
