package handlers

import (
	"net/http"
	"strconv"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/HeshalD/CeylonMart-sub001/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type InventoryHandler struct {
	useCase usecase.InventoryUseCase
	log     *logrus.Logger
}

func NewInventoryHandler(uc usecase.InventoryUseCase, logger *logrus.Logger) *InventoryHandler {
	return &InventoryHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *InventoryHandler) RegisterRoutes(router gin.IRouter) {
	inventory := router.Group("/inventory")
	{
		inventory.POST("/restock", h.Restock)
		inventory.POST("/remove", h.RemoveStock)
		inventory.GET("/history/:productId", h.ListStockHistory)
		inventory.GET("/low-stock", h.ListLowStock)
	}
}

func (h *InventoryHandler) Restock(c *gin.Context) {
	var requestBody struct {
		ProductRef domain.ProductRef `json:"product_ref"`
		Quantity   int               `json:"quantity"`
		Reason     string            `json:"reason"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Errorf("Failed to bind JSON for restock: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	movement, err := h.useCase.Restock(c.Request.Context(), requestBody.ProductRef.ID, requestBody.Quantity, requestBody.Reason)
	if err != nil {
		h.log.Warnf("Failed to restock product %d: %v", requestBody.ProductRef.ID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to restock product"))
		return
	}

	SuccessResponse(c, http.StatusCreated, "Product restocked successfully", movement)
}

func (h *InventoryHandler) RemoveStock(c *gin.Context) {
	var requestBody struct {
		ProductRef domain.ProductRef   `json:"product_ref"`
		Quantity   int                 `json:"quantity"`
		Type       domain.MovementType `json:"type"`
		Reason     string              `json:"reason"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Errorf("Failed to bind JSON for stock removal: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	movement, err := h.useCase.RemoveStock(c.Request.Context(), requestBody.ProductRef.ID, requestBody.Quantity, requestBody.Type, requestBody.Reason)
	if err != nil {
		h.log.Warnf("Failed to remove stock for product %d: %v", requestBody.ProductRef.ID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to remove stock"))
		return
	}

	SuccessResponse(c, http.StatusCreated, "Stock removed successfully", movement)
}

func (h *InventoryHandler) ListStockHistory(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.useCase.ListStockHistory(c.Request.Context(), productID, limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list stock history for product %d: %v", productID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to retrieve stock history"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Stock history retrieved successfully", entries)
}

func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	products, err := h.useCase.ListLowStock(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list low stock products: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to retrieve low stock products"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Low stock products retrieved successfully", products)
}
