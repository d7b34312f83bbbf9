package handler

import (
	"errors"
	"net/http"
	"strconv"

	couponService "digistore/internal/domain/coupon/service"
	"digistore/internal/domain/order/service"
	"digistore/pkg/response"
	"digistore/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

type CreateOrderInput struct {
	Customer   service.Customer   `json:"customer" binding:"required"`
	Items      []service.CartItem `json:"items" binding:"required,min=1,dive"`
	CouponCode string             `json:"couponCode"`
}

// Create assembles an order from the client-side cart.
// @Summary Create order
// @Tags Order
// @Accept json
// @Produce json
// @Param input body CreateOrderInput true "Cart and customer"
// @Success 200 {object} response.Response
// @Router /api/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), input.Customer, input.Items, input.CouponCode)
	if err != nil {
		var rejected *service.CouponRejectedError
		switch {
		case errors.As(err, &rejected):
			response.Fail(c, couponRejectionCode(rejected.Reason), rejected.Message)
		case errors.Is(err, service.ErrCartEmpty):
			response.Error(c, http.StatusBadRequest, response.ErrCartEmpty, "Cart is empty")
		case errors.Is(err, service.ErrProductUnavailable):
			response.Error(c, http.StatusBadRequest, response.ErrProductStockOut, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, order)
}

// Get returns one order. Public lookup by id supports the storefront's
// post-checkout status page.
// @Summary Order detail
// @Tags Order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Response
// @Router /api/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.service.GetOrder(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, order)
}

// couponRejectionCode mirrors the coupon validator endpoint so both
// surfaces refuse a code with the same business code.
func couponRejectionCode(reason string) int {
	switch reason {
	case couponService.ReasonNotFound:
		return response.ErrCouponNotFound
	case couponService.ReasonInactive:
		return response.ErrCouponInactive
	case couponService.ReasonNotStarted:
		return response.ErrCouponNotStarted
	case couponService.ReasonExpired:
		return response.ErrCouponExpired
	case couponService.ReasonLimitReached:
		return response.ErrCouponExhausted
	case couponService.ReasonBelowMinimum:
		return response.ErrCouponMinAmount
	default:
		return response.CodeError
	}
}

type OrderQuery struct {
	utils.Pagination
	Status string `form:"status" binding:"omitempty,oneof=pending processing completed cancelled"`
}

// List lists orders (admin).
// @Summary List orders
// @Tags Admin
// @Produce json
// @Param status query string false "Status filter"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /api/admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var q OrderQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.ListOrders(q.Status, q.Pagination)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, result)
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending processing completed cancelled"`
}

// UpdateStatus moves an order through its state machine (admin).
// @Summary Update order status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body UpdateStatusInput true "New status"
// @Success 200 {object} response.Response
// @Router /api/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Param("id"), input.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidTransition):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidTransition, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, order)
}

type UpdateNotesInput struct {
	Notes string `json:"notes"`
}

// UpdateNotes sets back-office notes on an order (admin).
// @Summary Update order notes
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body UpdateNotesInput true "Notes"
// @Success 200 {object} response.Response
// @Router /api/admin/orders/{id}/notes [put]
func (h *OrderHandler) UpdateNotes(c *gin.Context) {
	var input UpdateNotesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.UpdateNotes(c.Param("id"), input.Notes)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, order)
}

// Report returns revenue-by-day and top products (admin).
// @Summary Sales report
// @Tags Admin
// @Produce json
// @Param days query int false "Window in days, default 30"
// @Success 200 {object} response.Response
// @Router /api/admin/orders/report [get]
func (h *OrderHandler) Report(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	revenue, err := h.service.RevenueByDay(c.Request.Context(), days)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	top, err := h.service.TopProducts(c.Request.Context(), 10)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"revenueByDay": revenue,
		"topProducts":  top,
	})
}
