package handler

import (
	"errors"
	"net/http"
	"time"

	"digistore/internal/domain/coupon/service"
	"digistore/pkg/response"
	"digistore/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	service service.CouponService
}

func NewCouponHandler(s service.CouponService) *CouponHandler {
	return &CouponHandler{service: s}
}

type ValidateInput struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"required,gt=0"`
	Currency string  `json:"currency"`
}

// Validate checks a coupon code against the cart subtotal.
// @Summary Validate coupon
// @Tags Coupon
// @Accept json
// @Produce json
// @Param input body ValidateInput true "Code and subtotal"
// @Success 200 {object} response.Response
// @Router /api/coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	var input ValidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.Validate(input.Code, input.Subtotal, input.Currency)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	if !result.Accepted {
		response.Fail(c, rejectionCode(result.Reason), result.Message)
		return
	}

	response.Success(c, gin.H{
		"discount": result.Discount,
	})
}

func rejectionCode(reason string) int {
	switch reason {
	case service.ReasonNotFound:
		return response.ErrCouponNotFound
	case service.ReasonInactive:
		return response.ErrCouponInactive
	case service.ReasonNotStarted:
		return response.ErrCouponNotStarted
	case service.ReasonExpired:
		return response.ErrCouponExpired
	case service.ReasonLimitReached:
		return response.ErrCouponExhausted
	case service.ReasonBelowMinimum:
		return response.ErrCouponMinAmount
	default:
		return response.CodeError
	}
}

type CouponInput struct {
	Code            string     `json:"code" binding:"required"`
	DiscountType    string     `json:"discountType" binding:"required,oneof=percentage fixed"`
	DiscountValue   float64    `json:"discountValue" binding:"required,gt=0"`
	MinimumAmount   float64    `json:"minimumAmount" binding:"gte=0"`
	MaximumDiscount float64    `json:"maximumDiscount" binding:"gte=0"`
	UsageLimit      int        `json:"usageLimit" binding:"gte=0"`
	Status          int        `json:"status"`
	ValidFrom       time.Time  `json:"validFrom"`
	ValidUntil      *time.Time `json:"validUntil"`
}

func (in *CouponInput) toService() service.CouponInput {
	return service.CouponInput{
		Code:            in.Code,
		DiscountType:    in.DiscountType,
		DiscountValue:   in.DiscountValue,
		MinimumAmount:   in.MinimumAmount,
		MaximumDiscount: in.MaximumDiscount,
		UsageLimit:      in.UsageLimit,
		Status:          in.Status,
		ValidFrom:       in.ValidFrom,
		ValidUntil:      in.ValidUntil,
	}
}

// Create creates a coupon (admin).
// @Summary Create coupon
// @Tags Admin
// @Accept json
// @Produce json
// @Param input body CouponInput true "Coupon"
// @Success 200 {object} response.Response
// @Router /api/admin/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var input CouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	coupon, err := h.service.Create(input.toService())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, coupon)
}

// List lists coupons (admin).
// @Summary List coupons
// @Tags Admin
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /api/admin/coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.List(page)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, result)
}

// Update updates a coupon (admin).
// @Summary Update coupon
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param input body CouponInput true "Coupon"
// @Success 200 {object} response.Response
// @Router /api/admin/coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	var input CouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	coupon, err := h.service.Update(c.Param("id"), input.toService())
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCouponNotFound, "Coupon not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, coupon)
}

// Delete deletes a coupon (admin).
// @Summary Delete coupon
// @Tags Admin
// @Param id path string true "Coupon ID"
// @Success 200 {object} response.Response
// @Router /api/admin/coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCouponNotFound, "Coupon not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, nil)
}
