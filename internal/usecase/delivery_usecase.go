package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/HeshalD/CeylonMart-sub001/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// pickupWindow is added to the pickup time to produce the estimated delivery time.
const pickupWindow = 30 * time.Minute

type ConfirmationInput struct {
	Signature    string `json:"signature"`
	Photo        string `json:"photo"`
	CustomerName string `json:"customer_name"`
	Notes        string `json:"notes"`
}

type DeliveryUseCase interface {
	CreateDelivery(ctx context.Context, orderID, driverID int) (*domain.Delivery, error)
	GetDelivery(ctx context.Context, id int) (*domain.Delivery, error)
	ListDeliveries(ctx context.Context, status *domain.DeliveryStatus, limit, offset int) ([]domain.Delivery, error)
	UpdateStatus(ctx context.Context, id int, newStatus domain.DeliveryStatus, location, notes string) (*domain.Delivery, error)
	ConfirmDelivery(ctx context.Context, id int, confirmation ConfirmationInput) (*domain.Delivery, error)
	SoftDeleteDelivery(ctx context.Context, id int) error
}

type deliveryUseCase struct {
	deliveryRepo domain.DeliveryRepository
	driverRepo   domain.DriverRepository
	orderRepo    domain.OrderRepository
	metrics      *metrics.Metrics
	log          *logrus.Logger
}

func NewDeliveryUseCase(
	deliveryRepo domain.DeliveryRepository,
	driverRepo domain.DriverRepository,
	orderRepo domain.OrderRepository,
	m *metrics.Metrics,
	logger *logrus.Logger,
) DeliveryUseCase {
	return &deliveryUseCase{
		deliveryRepo: deliveryRepo,
		driverRepo:   driverRepo,
		orderRepo:    orderRepo,
		metrics:      m,
		log:          logger,
	}
}

func (uc *deliveryUseCase) CreateDelivery(ctx context.Context, orderID, driverID int) (*domain.Delivery, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: invalid order ID", domain.ErrValidation)
	}
	if driverID <= 0 {
		return nil, fmt.Errorf("%w: invalid driver ID", domain.ErrValidation)
	}

	order, err := uc.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusConfirmed {
		uc.log.Warnf("Use Case: Cannot dispatch order %d with status '%s'", orderID, order.Status)
		return nil, fmt.Errorf("%w: order %d is '%s', only confirmed orders can be dispatched", domain.ErrInvalidState, orderID, order.Status)
	}

	driver, err := uc.driverRepo.GetDriverByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver.Status != domain.DriverStatusActive {
		uc.log.Warnf("Use Case: Driver %d is '%s', cannot assign delivery", driverID, driver.Status)
		return nil, fmt.Errorf("%w: driver %d is not active", domain.ErrInvalidState, driverID)
	}
	if driver.Availability != domain.DriverAvailable {
		uc.log.Warnf("Use Case: Driver %d is '%s', cannot assign delivery", driverID, driver.Availability)
		return nil, fmt.Errorf("%w: driver %d is not available", domain.ErrInvalidState, driverID)
	}

	delivery := &domain.Delivery{
		OrderID:    orderID,
		CustomerID: order.CustomerID,
		DriverID:   driverID,
		Status:     domain.DeliveryStatusPending,
	}
	created, err := uc.deliveryRepo.CreateDelivery(ctx, delivery)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to create delivery for order %d: %v", orderID, err)
		return nil, err
	}

	if err := uc.driverRepo.AssignDelivery(ctx, driverID, created.ID); err != nil {
		uc.log.Errorf("Use Case: Delivery %d created but driver %d assignment failed: %v", created.ID, driverID, err)
		return nil, err
	}

	uc.metrics.DeliveryTransitions.WithLabelValues(string(domain.DeliveryStatusPending)).Inc()
	uc.log.Infof("Use Case: Delivery %d created for order %d, assigned to driver %d", created.ID, orderID, driverID)
	return created, nil
}

func (uc *deliveryUseCase) GetDelivery(ctx context.Context, id int) (*domain.Delivery, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid delivery ID", domain.ErrValidation)
	}
	return uc.deliveryRepo.GetDeliveryByID(ctx, id)
}

func (uc *deliveryUseCase) ListDeliveries(ctx context.Context, status *domain.DeliveryStatus, limit, offset int) ([]domain.Delivery, error) {
	if status != nil && !domain.IsValidDeliveryStatus(*status) {
		return nil, fmt.Errorf("%w: invalid delivery status '%s'", domain.ErrValidation, *status)
	}
	return uc.deliveryRepo.ListDeliveries(ctx, status, limit, offset)
}

func (uc *deliveryUseCase) UpdateStatus(ctx context.Context, id int, newStatus domain.DeliveryStatus, location, notes string) (*domain.Delivery, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid delivery ID", domain.ErrValidation)
	}
	if !domain.IsValidDeliveryStatus(newStatus) {
		return nil, fmt.Errorf("%w: invalid delivery status '%s'", domain.ErrValidation, newStatus)
	}

	delivery, err := uc.deliveryRepo.GetDeliveryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionDelivery(delivery.Status, newStatus) {
		uc.log.Warnf("Use Case: Illegal delivery transition for %d: '%s' -> '%s'", id, delivery.Status, newStatus)
		return nil, fmt.Errorf("%w: delivery %d cannot move from '%s' to '%s'", domain.ErrValidation, id, delivery.Status, newStatus)
	}

	now := time.Now()
	delivery.Status = newStatus
	switch newStatus {
	case domain.DeliveryStatusPicked:
		estimated := now.Add(pickupWindow)
		delivery.EstimatedDeliveryTime = &estimated
	case domain.DeliveryStatusDelivered:
		delivery.ActualDeliveryTime = &now
	}

	entry := domain.StatusHistoryEntry{
		Status:   newStatus,
		Location: location,
		Notes:    notes,
	}
	updated, err := uc.deliveryRepo.SaveTransition(ctx, delivery, entry)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist delivery %d transition to '%s': %v", id, newStatus, err)
		return nil, err
	}

	uc.syncDriver(ctx, updated)
	uc.metrics.DeliveryTransitions.WithLabelValues(string(newStatus)).Inc()
	uc.log.Infof("Use Case: Delivery %d transitioned to '%s'", id, newStatus)
	return updated, nil
}

func (uc *deliveryUseCase) ConfirmDelivery(ctx context.Context, id int, confirmation ConfirmationInput) (*domain.Delivery, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid delivery ID", domain.ErrValidation)
	}

	delivery, err := uc.deliveryRepo.GetDeliveryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery.Status != domain.DeliveryStatusInTransit {
		uc.log.Warnf("Use Case: Cannot confirm delivery %d with status '%s'", id, delivery.Status)
		return nil, fmt.Errorf("%w: delivery %d is '%s', only in-transit deliveries can be confirmed", domain.ErrInvalidState, id, delivery.Status)
	}

	now := time.Now()
	delivery.Status = domain.DeliveryStatusDelivered
	delivery.ActualDeliveryTime = &now
	delivery.Confirmation = &domain.DeliveryConfirmation{
		Signature:    confirmation.Signature,
		Photo:        confirmation.Photo,
		CustomerName: confirmation.CustomerName,
		Notes:        confirmation.Notes,
		ConfirmedAt:  now,
	}

	entry := domain.StatusHistoryEntry{
		Status: domain.DeliveryStatusDelivered,
		Notes:  "delivery confirmed by customer",
	}
	updated, err := uc.deliveryRepo.SaveTransition(ctx, delivery, entry)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist confirmation for delivery %d: %v", id, err)
		return nil, err
	}

	uc.syncDriver(ctx, updated)
	uc.metrics.DeliveryTransitions.WithLabelValues(string(domain.DeliveryStatusDelivered)).Inc()
	uc.log.Infof("Use Case: Delivery %d confirmed and marked delivered", id)
	return updated, nil
}

// syncDriver keeps the assigned driver's availability and counters aligned
// with the delivery's state. Failures are logged, not surfaced; the delivery
// transition itself is already durable.
func (uc *deliveryUseCase) syncDriver(ctx context.Context, delivery *domain.Delivery) {
	var err error
	switch delivery.Status {
	case domain.DeliveryStatusPicked, domain.DeliveryStatusInTransit:
		_, err = uc.driverRepo.SetAvailability(ctx, delivery.DriverID, domain.DriverBusy)
	case domain.DeliveryStatusDelivered:
		err = uc.driverRepo.CompleteAssignment(ctx, delivery.DriverID)
	case domain.DeliveryStatusFailed:
		err = uc.driverRepo.ReleaseAssignment(ctx, delivery.DriverID)
	default:
		return
	}
	if err != nil {
		uc.log.Errorf("Use Case: Failed to sync driver %d for delivery %d ('%s'): %v",
			delivery.DriverID, delivery.ID, delivery.Status, err)
	}
}

func (uc *deliveryUseCase) SoftDeleteDelivery(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid delivery ID", domain.ErrValidation)
	}
	return uc.deliveryRepo.SoftDeleteDelivery(ctx, id)
}
