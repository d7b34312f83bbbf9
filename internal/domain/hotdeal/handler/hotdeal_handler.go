package handler

import (
	"errors"
	"net/http"

	"digistore/internal/domain/hotdeal/service"
	"digistore/pkg/response"

	"github.com/gin-gonic/gin"
)

type HotDealHandler struct {
	service service.HotDealService
}

func NewHotDealHandler(s service.HotDealService) *HotDealHandler {
	return &HotDealHandler{service: s}
}

// ListActive returns the storefront deals strip.
// @Summary List active hot deals
// @Tags HotDeal
// @Produce json
// @Success 200 {object} response.Response{data=[]service.DealView}
// @Router /api/hot-deals [get]
func (h *HotDealHandler) ListActive(c *gin.Context) {
	deals, err := h.service.ListActive()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, deals)
}

// ListAll returns every deal row (admin).
// @Summary List hot deals
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/admin/hot-deals [get]
func (h *HotDealHandler) ListAll(c *gin.Context) {
	deals, err := h.service.ListAll()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, deals)
}

type DealInput struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	IsActive  bool   `json:"isActive"`
	SortOrder int    `json:"sortOrder"`
}

// Create adds a hot deal (admin).
// @Summary Create hot deal
// @Tags Admin
// @Accept json
// @Produce json
// @Param input body DealInput true "Deal"
// @Success 200 {object} response.Response
// @Router /api/admin/hot-deals [post]
func (h *HotDealHandler) Create(c *gin.Context) {
	var input DealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	deal, err := h.service.Create(service.DealInput{
		ProductID: input.ProductID,
		Title:     input.Title,
		Image:     input.Image,
		IsActive:  input.IsActive,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		h.writeDealError(c, err)
		return
	}

	response.Success(c, deal)
}

// Update edits a hot deal (admin).
// @Summary Update hot deal
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param input body DealInput true "Deal"
// @Success 200 {object} response.Response
// @Router /api/admin/hot-deals/{id} [put]
func (h *HotDealHandler) Update(c *gin.Context) {
	var input DealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	deal, err := h.service.Update(c.Param("id"), service.DealInput{
		ProductID: input.ProductID,
		Title:     input.Title,
		Image:     input.Image,
		IsActive:  input.IsActive,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		h.writeDealError(c, err)
		return
	}

	response.Success(c, deal)
}

// Delete removes a hot deal (admin).
// @Summary Delete hot deal
// @Tags Admin
// @Param id path string true "Deal ID"
// @Success 200 {object} response.Response
// @Router /api/admin/hot-deals/{id} [delete]
func (h *HotDealHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		h.writeDealError(c, err)
		return
	}

	response.Success(c, nil)
}

func (h *HotDealHandler) writeDealError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDealNotFound):
		response.Error(c, http.StatusNotFound, response.ErrNotFound, "Hot deal not found")
	case errors.Is(err, service.ErrProductNotFound):
		response.Error(c, http.StatusBadRequest, response.ErrProductNotFound, "Referenced product not found")
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
