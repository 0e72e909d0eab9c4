package handlers

import (
	"net/http"
	"strconv"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/HeshalD/CeylonMart-sub001/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	useCase usecase.PaymentUseCase
	log     *logrus.Logger
}

func NewPaymentHandler(uc usecase.PaymentUseCase, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *PaymentHandler) RegisterRoutes(router gin.IRouter) {
	payments := router.Group("/payments")
	{
		payments.POST("", h.CreatePayment)
		payments.GET("", h.ListPayments)
		payments.GET("/:id", h.GetPaymentByID)
		payments.PUT("/:id/status", h.UpdatePaymentStatus)
		payments.DELETE("/:id", h.DeletePayment)
	}
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var input usecase.CreatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Errorf("Failed to bind JSON for create payment: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	payment, err := h.useCase.CreatePayment(c.Request.Context(), input)
	if err != nil {
		h.log.Errorf("Failed to create payment for order %d: %v", input.OrderID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to create payment"))
		return
	}

	h.log.Infof("Payment %d created for order %d (status: %s)", payment.ID, payment.OrderID, payment.Status)
	SuccessResponse(c, http.StatusCreated, "Payment created successfully", payment)
}

func (h *PaymentHandler) GetPaymentByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.useCase.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get payment by ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to retrieve payment"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Payment retrieved successfully", payment)
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	customerIDStr := c.Query("customer_id")
	customerID, err := strconv.Atoi(customerIDStr)
	if err != nil || customerID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid or missing customer_id query parameter")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	payments, err := h.useCase.ListPaymentsByCustomer(c.Request.Context(), customerID, limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list payments for customer %d: %v", customerID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to retrieve payments"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Payments retrieved successfully", payments)
}

func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var requestBody struct {
		Status *domain.PaymentStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Errorf("Failed to bind JSON for payment status update %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if requestBody.Status == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'status' field is required")
		return
	}

	payment, err := h.useCase.UpdatePaymentStatus(c.Request.Context(), id, *requestBody.Status)
	if err != nil {
		h.log.Warnf("Failed to update status for payment %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to update payment status"))
		return
	}

	h.log.Infof("Payment %d status updated to '%s'", payment.ID, payment.Status)
	SuccessResponse(c, http.StatusOK, "Payment status updated successfully", payment)
}

func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.useCase.SoftDeletePayment(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete payment %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to delete payment"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Payment deleted successfully", nil)
}
