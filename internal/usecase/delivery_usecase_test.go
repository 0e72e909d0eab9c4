package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newDeliveryFixture() (*MockDeliveryRepository, *MockDriverRepository, *MockOrderRepository, DeliveryUseCase) {
	deliveryRepo := new(MockDeliveryRepository)
	driverRepo := new(MockDriverRepository)
	orderRepo := new(MockOrderRepository)
	uc := NewDeliveryUseCase(deliveryRepo, driverRepo, orderRepo, testMetrics(), testLogger())
	return deliveryRepo, driverRepo, orderRepo, uc
}

func TestCreateDelivery_AssignsAvailableDriver(t *testing.T) {
	// Arrange
	deliveryRepo, driverRepo, orderRepo, uc := newDeliveryFixture()
	ctx := context.Background()

	orderRepo.On("GetOrderByID", ctx, 10).Return(&domain.Order{
		ID: 10, CustomerID: 7, Status: domain.OrderStatusConfirmed,
	}, nil)
	driverRepo.On("GetDriverByID", ctx, 3).Return(&domain.Driver{
		ID: 3, Status: domain.DriverStatusActive, Availability: domain.DriverAvailable,
	}, nil)
	deliveryRepo.On("CreateDelivery", ctx, mock.MatchedBy(func(d *domain.Delivery) bool {
		return d.OrderID == 10 && d.DriverID == 3 && d.Status == domain.DeliveryStatusPending
	})).Return(&domain.Delivery{ID: 20, OrderID: 10, CustomerID: 7, DriverID: 3, Status: domain.DeliveryStatusPending}, nil)
	driverRepo.On("AssignDelivery", ctx, 3, 20).Return(nil)

	// Act
	created, err := uc.CreateDelivery(ctx, 10, 3)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 20, created.ID)
	driverRepo.AssertCalled(t, "AssignDelivery", ctx, 3, 20)
}

func TestCreateDelivery_RejectsUnconfirmedOrder(t *testing.T) {
	deliveryRepo, _, orderRepo, uc := newDeliveryFixture()
	ctx := context.Background()

	orderRepo.On("GetOrderByID", ctx, 10).Return(&domain.Order{
		ID: 10, Status: domain.OrderStatusPending,
	}, nil)

	_, err := uc.CreateDelivery(ctx, 10, 3)

	assert.ErrorIs(t, err, domain.ErrInvalidState)
	deliveryRepo.AssertNotCalled(t, "CreateDelivery", mock.Anything, mock.Anything)
}

func TestCreateDelivery_RejectsBusyOrInactiveDriver(t *testing.T) {
	deliveryRepo, driverRepo, orderRepo, uc := newDeliveryFixture()
	ctx := context.Background()

	orderRepo.On("GetOrderByID", ctx, 10).Return(&domain.Order{
		ID: 10, Status: domain.OrderStatusConfirmed,
	}, nil)
	driverRepo.On("GetDriverByID", ctx, 3).Return(&domain.Driver{
		ID: 3, Status: domain.DriverStatusActive, Availability: domain.DriverBusy,
	}, nil).Once()

	_, err := uc.CreateDelivery(ctx, 10, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	driverRepo.On("GetDriverByID", ctx, 3).Return(&domain.Driver{
		ID: 3, Status: domain.DriverStatusOnLeave, Availability: domain.DriverAvailable,
	}, nil).Once()

	_, err = uc.CreateDelivery(ctx, 10, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	deliveryRepo.AssertNotCalled(t, "CreateDelivery", mock.Anything, mock.Anything)
}

func TestUpdateStatus_PickedSetsEstimatedTimeAndBusiesDriver(t *testing.T) {
	// Arrange
	deliveryRepo, driverRepo, _, uc := newDeliveryFixture()
	ctx := context.Background()

	deliveryRepo.On("GetDeliveryByID", ctx, 20).Return(&domain.Delivery{
		ID: 20, DriverID: 3, Status: domain.DeliveryStatusPending,
	}, nil)
	var saved *domain.Delivery
	deliveryRepo.On("SaveTransition", ctx, mock.MatchedBy(func(d *domain.Delivery) bool {
		return d.Status == domain.DeliveryStatusPicked && d.EstimatedDeliveryTime != nil
	}), mock.MatchedBy(func(e domain.StatusHistoryEntry) bool {
		return e.Status == domain.DeliveryStatusPicked && e.Location == "warehouse"
	})).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.Delivery)
	}).Return(&domain.Delivery{ID: 20, DriverID: 3, Status: domain.DeliveryStatusPicked}, nil)
	driverRepo.On("SetAvailability", ctx, 3, domain.DriverBusy).Return(&domain.Driver{ID: 3}, nil)

	before := time.Now()

	// Act
	updated, err := uc.UpdateStatus(ctx, 20, domain.DeliveryStatusPicked, "warehouse", "picked up")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, domain.DeliveryStatusPicked, updated.Status)
	if assert.NotNil(t, saved) && assert.NotNil(t, saved.EstimatedDeliveryTime) {
		estimate := *saved.EstimatedDeliveryTime
		assert.True(t, estimate.After(before.Add(29*time.Minute)))
		assert.True(t, estimate.Before(before.Add(31*time.Minute)))
	}
	driverRepo.AssertCalled(t, "SetAvailability", ctx, 3, domain.DriverBusy)
}

func TestUpdateStatus_RejectsIllegalTransition(t *testing.T) {
	deliveryRepo, driverRepo, _, uc := newDeliveryFixture()
	ctx := context.Background()

	deliveryRepo.On("GetDeliveryByID", ctx, 20).Return(&domain.Delivery{
		ID: 20, DriverID: 3, Status: domain.DeliveryStatusPending,
	}, nil)

	_, err := uc.UpdateStatus(ctx, 20, domain.DeliveryStatusDelivered, "", "")

	assert.ErrorIs(t, err, domain.ErrValidation)
	deliveryRepo.AssertNotCalled(t, "SaveTransition", mock.Anything, mock.Anything, mock.Anything)
	driverRepo.AssertNotCalled(t, "CompleteAssignment", mock.Anything, mock.Anything)
}

func TestUpdateStatus_DeliveredCompletesDriverAssignment(t *testing.T) {
	deliveryRepo, driverRepo, _, uc := newDeliveryFixture()
	ctx := context.Background()

	deliveryRepo.On("GetDeliveryByID", ctx, 20).Return(&domain.Delivery{
		ID: 20, DriverID: 3, Status: domain.DeliveryStatusInTransit,
	}, nil)
	deliveryRepo.On("SaveTransition", ctx, mock.MatchedBy(func(d *domain.Delivery) bool {
		return d.Status == domain.DeliveryStatusDelivered && d.ActualDeliveryTime != nil
	}), mock.Anything).Return(&domain.Delivery{
		ID: 20, DriverID: 3, Status: domain.DeliveryStatusDelivered,
	}, nil)
	driverRepo.On("CompleteAssignment", ctx, 3).Return(nil)

	updated, err := uc.UpdateStatus(ctx, 20, domain.DeliveryStatusDelivered, "front door", "")

	assert.NoError(t, err)
	assert.Equal(t, domain.DeliveryStatusDelivered, updated.Status)
	driverRepo.AssertCalled(t, "CompleteAssignment", ctx, 3)
}

func TestUpdateStatus_FailedReleasesDriver(t *testing.T) {
	deliveryRepo, driverRepo, _, uc := newDeliveryFixture()
	ctx := context.Background()

	deliveryRepo.On("GetDeliveryByID", ctx, 20).Return(&domain.Delivery{
		ID: 20, DriverID: 3, Status: domain.DeliveryStatusInTransit,
	}, nil)
	deliveryRepo.On("SaveTransition", ctx, mock.Anything, mock.Anything).Return(&domain.Delivery{
		ID: 20, DriverID: 3, Status: domain.DeliveryStatusFailed,
	}, nil)
	driverRepo.On("ReleaseAssignment", ctx, 3).Return(nil)

	_, err := uc.UpdateStatus(ctx, 20, domain.DeliveryStatusFailed, "", "customer unreachable")

	assert.NoError(t, err)
	driverRepo.AssertCalled(t, "ReleaseAssignment", ctx, 3)
	driverRepo.AssertNotCalled(t, "CompleteAssignment", mock.Anything, mock.Anything)
}

func TestConfirmDelivery_OnlyInTransit(t *testing.T) {
	deliveryRepo, _, _, uc := newDeliveryFixture()
	ctx := context.Background()

	deliveryRepo.On("GetDeliveryByID", ctx, 20).Return(&domain.Delivery{
		ID: 20, DriverID: 3, Status: domain.DeliveryStatusPicked,
	}, nil)

	_, err := uc.ConfirmDelivery(ctx, 20, ConfirmationInput{CustomerName: "N. Perera"})

	assert.ErrorIs(t, err, domain.ErrInvalidState)
	deliveryRepo.AssertNotCalled(t, "SaveTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmDelivery_RecordsProofAndDelivers(t *testing.T) {
	// Arrange
	deliveryRepo, driverRepo, _, uc := newDeliveryFixture()
	ctx := context.Background()

	deliveryRepo.On("GetDeliveryByID", ctx, 20).Return(&domain.Delivery{
		ID: 20, DriverID: 3, Status: domain.DeliveryStatusInTransit,
	}, nil)
	deliveryRepo.On("SaveTransition", ctx, mock.MatchedBy(func(d *domain.Delivery) bool {
		return d.Status == domain.DeliveryStatusDelivered &&
			d.ActualDeliveryTime != nil &&
			d.Confirmation != nil &&
			d.Confirmation.CustomerName == "N. Perera" &&
			d.Confirmation.Signature == "sig-data"
	}), mock.Anything).Return(&domain.Delivery{
		ID: 20, DriverID: 3, Status: domain.DeliveryStatusDelivered,
	}, nil)
	driverRepo.On("CompleteAssignment", ctx, 3).Return(nil)

	// Act
	updated, err := uc.ConfirmDelivery(ctx, 20, ConfirmationInput{
		Signature:    "sig-data",
		CustomerName: "N. Perera",
		Notes:        "left with customer",
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, domain.DeliveryStatusDelivered, updated.Status)
	driverRepo.AssertCalled(t, "CompleteAssignment", ctx, 3)
}

func TestListDeliveries_RejectsInvalidStatusFilter(t *testing.T) {
	_, _, _, uc := newDeliveryFixture()

	bad := domain.DeliveryStatus("lost")
	_, err := uc.ListDeliveries(context.Background(), &bad, 10, 0)

	assert.ErrorIs(t, err, domain.ErrValidation)
}
