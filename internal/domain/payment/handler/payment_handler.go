package handler

import (
	"errors"
	"net/http"

	"digistore/internal/domain/payment/service"
	"digistore/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type InitiateInput struct {
	OrderID string `json:"order_id" binding:"required,uuid"`
}

// Initiate creates a payment charge for an order.
// @Summary Initiate payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param input body InitiateInput true "Order reference"
// @Success 200 {object} response.Response{data=service.InitiateResult}
// @Router /api/payment/initiate [post]
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var input InitiateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.Initiate(c.Request.Context(), input.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrAlreadySettled):
			response.Error(c, http.StatusBadRequest, response.ErrPaymentInit, "Order payment already settled")
		case errors.Is(err, service.ErrNoStrategy), errors.Is(err, service.ErrInitiateFailed):
			response.Error(c, http.StatusBadGateway, response.ErrPaymentInit, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, result)
}

type CallbackInput struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	OrderID       string `json:"order_id" binding:"required,uuid"`
	Status        string `json:"status" binding:"required"`
}

// Callback settles an order after the provider reports an outcome.
// Replaying a settled transaction returns the current order unchanged.
// @Summary Payment callback
// @Tags Payment
// @Accept json
// @Produce json
// @Param input body CallbackInput true "Provider callback"
// @Success 200 {object} response.Response
// @Router /api/payment/callback [post]
func (h *PaymentHandler) Callback(c *gin.Context) {
	var input CallbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.HandleCallback(c.Request.Context(), input.TransactionID, input.OrderID, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrUnknownTxn):
			response.Error(c, http.StatusBadRequest, response.ErrPaymentVerify, "Unknown transaction id")
		case errors.Is(err, service.ErrVerifyMismatch):
			response.Error(c, http.StatusBadGateway, response.ErrPaymentVerify, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, order)
}
