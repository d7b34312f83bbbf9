package siteconfig

import (
	"digistore/internal/domain/siteconfig/handler"
	"digistore/internal/domain/siteconfig/repository"
	"digistore/internal/domain/siteconfig/service"
	"digistore/internal/pkg/middleware"
	"digistore/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// SiteConfigModule serves the singleton storefront settings.
type SiteConfigModule struct{}

func init() {
	registry.Register(&SiteConfigModule{})
}

func (m *SiteConfigModule) Name() string {
	return "siteconfig"
}

func (m *SiteConfigModule) Priority() int {
	// orders read the currency/tax settings
	return 3
}

func (m *SiteConfigModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewSiteConfigRepository(ctx.DB)
	svc := service.NewSiteConfigService(repo)
	h := handler.NewSiteConfigHandler(svc)

	setupRoutes(ctx.Router, h)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.SiteConfigHandler) {
	r.GET("/api/settings", h.Get)

	admin := r.Group("/api/admin/settings")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("", h.GetAdmin)
		admin.PUT("", h.Update)
	}
}
