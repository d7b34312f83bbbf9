package handler

import (
	"net/http"

	"digistore/internal/domain/siteconfig/model"
	"digistore/internal/domain/siteconfig/service"
	"digistore/pkg/response"

	"github.com/gin-gonic/gin"
)

type SiteConfigHandler struct {
	service service.SiteConfigService
}

func NewSiteConfigHandler(s service.SiteConfigService) *SiteConfigHandler {
	return &SiteConfigHandler{service: s}
}

// publicView strips nothing today, but keeps the door open for fields the
// storefront should not see.
type publicView struct {
	Banners            model.Banners `json:"banners"`
	ContactEmail       string        `json:"contactEmail"`
	ContactPhone       string        `json:"contactPhone"`
	Currency           string        `json:"currency"`
	ConversionRate     float64       `json:"conversionRate"`
	BannerIntervalSecs int           `json:"bannerIntervalSecs"`
	DealsRotationSecs  int           `json:"dealsRotationSecs"`
}

// Get returns storefront display settings.
// @Summary Site settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/settings [get]
func (h *SiteConfigHandler) Get(c *gin.Context) {
	cfg, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, publicView{
		Banners:            cfg.Banners,
		ContactEmail:       cfg.ContactEmail,
		ContactPhone:       cfg.ContactPhone,
		Currency:           cfg.Currency,
		ConversionRate:     cfg.ConversionRate,
		BannerIntervalSecs: cfg.BannerIntervalSecs,
		DealsRotationSecs:  cfg.DealsRotationSecs,
	})
}

// GetAdmin returns the full settings row (admin).
// @Summary Site settings (admin)
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/admin/settings [get]
func (h *SiteConfigHandler) GetAdmin(c *gin.Context) {
	cfg, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, cfg)
}

type UpdateInput struct {
	Banners            model.Banners `json:"banners"`
	ContactEmail       string        `json:"contactEmail"`
	ContactPhone       string        `json:"contactPhone"`
	Currency           string        `json:"currency"`
	ConversionRate     float64       `json:"conversionRate" binding:"gte=0"`
	TaxRate            float64       `json:"taxRate" binding:"gte=0,lte=1"`
	BannerIntervalSecs int           `json:"bannerIntervalSecs" binding:"gte=0"`
	DealsRotationSecs  int           `json:"dealsRotationSecs" binding:"gte=0"`
}

// Update replaces the settings row (admin).
// @Summary Update site settings
// @Tags Admin
// @Accept json
// @Produce json
// @Param input body UpdateInput true "Settings"
// @Success 200 {object} response.Response
// @Router /api/admin/settings [put]
func (h *SiteConfigHandler) Update(c *gin.Context) {
	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cfg, err := h.service.Update(c.Request.Context(), service.UpdateInput{
		Banners:            input.Banners,
		ContactEmail:       input.ContactEmail,
		ContactPhone:       input.ContactPhone,
		Currency:           input.Currency,
		ConversionRate:     input.ConversionRate,
		TaxRate:            input.TaxRate,
		BannerIntervalSecs: input.BannerIntervalSecs,
		DealsRotationSecs:  input.DealsRotationSecs,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, cfg)
}
