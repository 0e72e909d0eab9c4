package handlers

import (
	"net/http"
	"strconv"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/HeshalD/CeylonMart-sub001/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type DriverHandler struct {
	useCase usecase.DriverUseCase
	log     *logrus.Logger
}

func NewDriverHandler(uc usecase.DriverUseCase, logger *logrus.Logger) *DriverHandler {
	return &DriverHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *DriverHandler) RegisterRoutes(router gin.IRouter) {
	drivers := router.Group("/drivers")
	{
		drivers.POST("", h.RegisterDriver)
		drivers.GET("", h.SearchDrivers)
		drivers.GET("/:id", h.GetDriverByID)
		drivers.PATCH("/:id", h.UpdateDriver)
		drivers.PUT("/:id/availability", h.ToggleAvailability)
		drivers.DELETE("/:id", h.DeleteDriver)
	}
}

func (h *DriverHandler) RegisterDriver(c *gin.Context) {
	var input usecase.RegisterDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Errorf("Failed to bind JSON for register driver: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	driver, err := h.useCase.RegisterDriver(c.Request.Context(), input)
	if err != nil {
		h.log.Warnf("Failed to register driver '%s': %v", input.Name, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to register driver"))
		return
	}

	h.log.Infof("Driver %d registered", driver.ID)
	SuccessResponse(c, http.StatusCreated, "Driver registered successfully", driver)
}

func (h *DriverHandler) GetDriverByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	driver, err := h.useCase.GetDriver(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get driver by ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to retrieve driver"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Driver retrieved successfully", driver)
}

func (h *DriverHandler) SearchDrivers(c *gin.Context) {
	minCapacity, _ := strconv.Atoi(c.DefaultQuery("min_capacity", "0"))
	filters := domain.DriverFilters{
		Name:         c.Query("name"),
		VehicleType:  c.Query("vehicle_type"),
		MinCapacity:  minCapacity,
		Availability: domain.DriverAvailability(c.Query("availability")),
		Status:       domain.DriverStatus(c.Query("status")),
		District:     c.Query("district"),
	}

	drivers, err := h.useCase.SearchDrivers(c.Request.Context(), filters)
	if err != nil {
		h.log.Warnf("Driver search failed: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to search drivers"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Drivers retrieved successfully", drivers)
}

func (h *DriverHandler) UpdateDriver(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		h.log.Errorf("Failed to bind JSON for update driver %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(updates) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: no fields to update")
		return
	}

	driver, err := h.useCase.UpdateDriver(c.Request.Context(), id, updates)
	if err != nil {
		h.log.Warnf("Failed to update driver %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to update driver"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Driver updated successfully", driver)
}

func (h *DriverHandler) ToggleAvailability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var requestBody struct {
		Availability *domain.DriverAvailability `json:"availability"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Errorf("Failed to bind JSON for driver availability %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if requestBody.Availability == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'availability' field is required")
		return
	}

	driver, err := h.useCase.ToggleAvailability(c.Request.Context(), id, *requestBody.Availability)
	if err != nil {
		h.log.Warnf("Failed to toggle availability for driver %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to update driver availability"))
		return
	}

	h.log.Infof("Driver %d availability set to '%s'", driver.ID, driver.Availability)
	SuccessResponse(c, http.StatusOK, "Driver availability updated successfully", driver)
}

func (h *DriverHandler) DeleteDriver(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.useCase.SoftDeleteDriver(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete driver %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), mapErrorToMessage(err, "Failed to delete driver"))
		return
	}

	SuccessResponse(c, http.StatusOK, "Driver deleted successfully", nil)
}
