package catalog

import (
	"digistore/internal/domain/catalog/handler"
	"digistore/internal/domain/catalog/repository"
	"digistore/internal/domain/catalog/service"
	"digistore/internal/pkg/middleware"
	"digistore/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CatalogModule serves products and categories.
type CatalogModule struct{}

func init() {
	registry.Register(&CatalogModule{})
}

func (m *CatalogModule) Name() string {
	return "catalog"
}

func (m *CatalogModule) Priority() int {
	// orders and hot deals read from the catalog
	return 5
}

func (m *CatalogModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewCatalogRepository(ctx.DB)
	svc := service.NewCatalogService(repo, ctx.Cache)
	h := handler.NewCatalogHandler(svc)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CatalogHandler) {
	public := r.Group("/api")
	{
		public.GET("/products", h.ListProducts)
		public.GET("/products/:slug", h.GetProduct)
		public.GET("/categories", h.ListCategories)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)

		admin.POST("/categories", h.CreateCategory)
		admin.PUT("/categories/:id", h.UpdateCategory)
		admin.DELETE("/categories/:id", h.DeleteCategory)
	}
}
