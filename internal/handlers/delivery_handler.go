package handlers

import (
	"net/http"
	"strconv"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/HeshalD/CeylonMart-sub001/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type DeliveryHandler struct {
	useCase usecase.DeliveryUseCase
	log     *logrus.Logger
}

func NewDeliveryHandler(uc usecase.DeliveryUseCase, logger *logrus.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *DeliveryHandler) RegisterRoutes(router gin.IRouter) {
	deliveries := router.Group("/deliveries")
	{
		deliveries.POST("", h.CreateDelivery)
		deliveries.GET("", h.ListDeliveries)
		deliveries.GET("/:id", h.GetDeliveryByID)
		deliveries.PUT("/:id/status", h.UpdateStatus)
		deliveries.POST("/:id/confirm", h.ConfirmDelivery)
		deliveries.DELETE("/:id", h.DeleteDelivery)
	}
}

func (h *DeliveryHandler) CreateDelivery(c *gin.Context) {
	var requestBody struct {
		OrderID  int `json:"order_id"`
		DriverID int `json:"driver_id"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Errorf("Failed to bind JSON for create delivery: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	delivery, err := h.useCase.CreateDelivery(c.Request.Context(), requestBody.OrderID, requestBody.DriverID)
	if err != nil {
		h.log.Warnf("Failed to create delivery for order %d: %v", requestBody.OrderID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to create delivery"))
		return
	}

	h.log.Infof("Delivery %d created for order %d", delivery.ID, delivery.OrderID)
	SuccessResponse(c, http.StatusCreated, "Delivery created successfully", delivery)
}

func (h *DeliveryHandler) GetDeliveryByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	delivery, err := h.useCase.GetDelivery(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get delivery by ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to retrieve delivery"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Delivery retrieved successfully", delivery)
}

func (h *DeliveryHandler) ListDeliveries(c *gin.Context) {
	var status *domain.DeliveryStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := domain.DeliveryStatus(statusStr)
		status = &s
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	deliveries, err := h.useCase.ListDeliveries(c.Request.Context(), status, limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list deliveries: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to retrieve deliveries"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Deliveries retrieved successfully", deliveries)
}

func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var requestBody struct {
		Status   *domain.DeliveryStatus `json:"status"`
		Location string                 `json:"location"`
		Notes    string                 `json:"notes"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Errorf("Failed to bind JSON for delivery status update %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if requestBody.Status == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'status' field is required")
		return
	}

	delivery, err := h.useCase.UpdateStatus(c.Request.Context(), id, *requestBody.Status, requestBody.Location, requestBody.Notes)
	if err != nil {
		h.log.Warnf("Failed to update status for delivery %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to update delivery status"))
		return
	}

	h.log.Infof("Delivery %d status updated to '%s'", delivery.ID, delivery.Status)
	SuccessResponse(c, http.StatusOK, "Delivery status updated successfully", delivery)
}

func (h *DeliveryHandler) ConfirmDelivery(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input usecase.ConfirmationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Errorf("Failed to bind JSON for delivery confirmation %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	delivery, err := h.useCase.ConfirmDelivery(c.Request.Context(), id, input)
	if err != nil {
		h.log.Warnf("Failed to confirm delivery %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to confirm delivery"))
		return
	}

	h.log.Infof("Delivery %d confirmed", delivery.ID)
	SuccessResponse(c, http.StatusOK, "Delivery confirmed successfully", delivery)
}

func (h *DeliveryHandler) DeleteDelivery(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.useCase.SoftDeleteDelivery(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete delivery %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to delete delivery"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Delivery deleted successfully", nil)
}
