package usecase

import (
	"context"
	"testing"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newDriverFixture() (*MockDriverRepository, DriverUseCase) {
	driverRepo := new(MockDriverRepository)
	uc := NewDriverUseCase(driverRepo, testLogger())
	return driverRepo, uc
}

func TestRegisterDriver_DefaultsToActiveAndAvailable(t *testing.T) {
	// Arrange
	driverRepo, uc := newDriverFixture()
	ctx := context.Background()

	driverRepo.On("CreateDriver", ctx, mock.MatchedBy(func(d *domain.Driver) bool {
		return d.Availability == domain.DriverAvailable && d.Status == domain.DriverStatusActive
	})).Return(&domain.Driver{
		ID:           1,
		Name:         "K. Silva",
		Availability: domain.DriverAvailable,
		Status:       domain.DriverStatusActive,
	}, nil)

	// Act
	created, err := uc.RegisterDriver(ctx, RegisterDriverInput{
		Name:          "K. Silva",
		LicenseNumber: "B1234567",
		VehicleType:   "van",
		Capacity:      40,
		District:      "Colombo",
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	driverRepo.AssertExpectations(t)
}

func TestRegisterDriver_Validation(t *testing.T) {
	driverRepo, uc := newDriverFixture()
	ctx := context.Background()

	cases := []RegisterDriverInput{
		{Name: "", LicenseNumber: "B1", VehicleType: "van", Capacity: 10},
		{Name: "K. Silva", LicenseNumber: "", VehicleType: "van", Capacity: 10},
		{Name: "K. Silva", LicenseNumber: "B1", VehicleType: "", Capacity: 10},
		{Name: "K. Silva", LicenseNumber: "B1", VehicleType: "van", Capacity: 0},
	}
	for _, input := range cases {
		_, err := uc.RegisterDriver(ctx, input)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	driverRepo.AssertNotCalled(t, "CreateDriver", mock.Anything, mock.Anything)
}

func TestToggleAvailability_RejectsUnknownValue(t *testing.T) {
	driverRepo, uc := newDriverFixture()

	_, err := uc.ToggleAvailability(context.Background(), 1, domain.DriverAvailability("sleeping"))

	assert.ErrorIs(t, err, domain.ErrValidation)
	driverRepo.AssertNotCalled(t, "SetAvailability", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleAvailability_PersistsValidValue(t *testing.T) {
	driverRepo, uc := newDriverFixture()
	ctx := context.Background()

	driverRepo.On("SetAvailability", ctx, 1, domain.DriverUnavailable).Return(&domain.Driver{
		ID: 1, Availability: domain.DriverUnavailable,
	}, nil)

	driver, err := uc.ToggleAvailability(ctx, 1, domain.DriverUnavailable)

	assert.NoError(t, err)
	assert.Equal(t, domain.DriverUnavailable, driver.Availability)
}

func TestUpdateDriver_ValidatesStatusAndRating(t *testing.T) {
	driverRepo, uc := newDriverFixture()
	ctx := context.Background()

	_, err := uc.UpdateDriver(ctx, 1, map[string]interface{}{"status": "retired"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.UpdateDriver(ctx, 1, map[string]interface{}{"rating": 5.5})
	assert.ErrorIs(t, err, domain.ErrValidation)

	driverRepo.AssertNotCalled(t, "UpdateDriver", mock.Anything, mock.Anything, mock.Anything)

	driverRepo.On("UpdateDriver", ctx, 1, map[string]interface{}{"rating": 4.5}).Return(&domain.Driver{
		ID: 1, Rating: 4.5,
	}, nil)

	driver, err := uc.UpdateDriver(ctx, 1, map[string]interface{}{"rating": 4.5})
	assert.NoError(t, err)
	assert.Equal(t, 4.5, driver.Rating)
}

func TestSearchDrivers_RejectsInvalidFilters(t *testing.T) {
	driverRepo, uc := newDriverFixture()
	ctx := context.Background()

	_, err := uc.SearchDrivers(ctx, domain.DriverFilters{Availability: domain.DriverAvailability("idle")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.SearchDrivers(ctx, domain.DriverFilters{Status: domain.DriverStatus("fired")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.SearchDrivers(ctx, domain.DriverFilters{MinCapacity: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	driverRepo.AssertNotCalled(t, "SearchDrivers", mock.Anything, mock.Anything)
}

func TestSearchDrivers_PassesFiltersThrough(t *testing.T) {
	driverRepo, uc := newDriverFixture()
	ctx := context.Background()

	filters := domain.DriverFilters{
		District:     "Colombo",
		Availability: domain.DriverAvailable,
		MinCapacity:  20,
	}
	driverRepo.On("SearchDrivers", ctx, filters).Return([]domain.Driver{
		{ID: 1, District: "Colombo", Availability: domain.DriverAvailable, Capacity: 40},
	}, nil)

	drivers, err := uc.SearchDrivers(ctx, filters)

	assert.NoError(t, err)
	assert.Len(t, drivers, 1)
}
