package handlers

import (
	"net/http"
	"strconv"

	"github.com/HeshalD/CeylonMart-sub001/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	useCase usecase.CartUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc usecase.CartUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrderByID)
		orders.DELETE("/:id", h.DeleteOrder)
		orders.GET("/cart/:customerId", h.GetOrCreateCart)
		orders.POST("/cart/:customerId/items", h.AddCartItem)
		orders.DELETE("/cart/:customerId/items", h.ClearCart)
		orders.PUT("/:id/items/:productId", h.UpdateItem)
		orders.DELETE("/:id/items/:productId", h.RemoveItem)
	}
}

func pathID(c *gin.Context, name string) (int, bool) {
	idStr := c.Param(name)
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var requestBody struct {
		CustomerID int                 `json:"customer_id"`
		Items      []usecase.ItemInput `json:"items"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Errorf("Failed to bind JSON for create order: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	createdOrder, err := h.useCase.CreateOrder(c.Request.Context(), requestBody.CustomerID, requestBody.Items)
	if err != nil {
		h.log.Errorf("Failed to create order for customer %d: %v", requestBody.CustomerID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to create order"))
		return
	}

	h.log.Infof("Order %d created for customer %d", createdOrder.ID, createdOrder.CustomerID)
	SuccessResponse(c, http.StatusCreated, "Order created successfully", createdOrder)
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.useCase.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get order by ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to retrieve order"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	customerIDStr := c.Query("customer_id")
	customerID, err := strconv.Atoi(customerIDStr)
	if err != nil || customerID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid or missing customer_id query parameter")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.useCase.ListOrdersByCustomer(c.Request.Context(), customerID, limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list orders for customer %d: %v", customerID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to retrieve orders"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetOrCreateCart(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return
	}

	cart, err := h.useCase.GetOrCreateCart(c.Request.Context(), customerID)
	if err != nil {
		h.log.Errorf("Failed to get or create cart for customer %d: %v", customerID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to retrieve cart"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", cart)
}

func (h *OrderHandler) AddCartItem(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return
	}

	var input usecase.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Errorf("Failed to bind JSON for add cart item (customer %d): %v", customerID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.useCase.AddItem(c.Request.Context(), customerID, input)
	if err != nil {
		h.log.Warnf("Failed to add item to cart for customer %d: %v", customerID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to add item to cart"))
		return
	}

	h.log.Infof("Item added to cart for customer %d (order %d)", customerID, cart.ID)
	SuccessResponse(c, http.StatusOK, "Item added to cart", cart)
}

func (h *OrderHandler) UpdateItem(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	var requestBody struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Errorf("Failed to bind JSON for update item (order %d): %v", orderID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if requestBody.Quantity == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'quantity' field is required")
		return
	}

	order, err := h.useCase.UpdateItemQuantity(c.Request.Context(), orderID, productID, *requestBody.Quantity)
	if err != nil {
		h.log.Warnf("Failed to update item %d in order %d: %v", productID, orderID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to update item"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Item updated successfully", order)
}

func (h *OrderHandler) RemoveItem(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	order, err := h.useCase.RemoveItem(c.Request.Context(), orderID, productID)
	if err != nil {
		h.log.Warnf("Failed to remove item %d from order %d: %v", productID, orderID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to remove item"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Item removed successfully", order)
}

func (h *OrderHandler) ClearCart(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return
	}

	cart, err := h.useCase.ClearCart(c.Request.Context(), customerID)
	if err != nil {
		h.log.Warnf("Failed to clear cart for customer %d: %v", customerID, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to clear cart"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Cart cleared successfully", cart)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.useCase.SoftDeleteOrder(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to delete order"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Order deleted successfully", nil)
}
