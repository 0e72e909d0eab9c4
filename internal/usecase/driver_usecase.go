package usecase

import (
	"context"
	"fmt"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/sirupsen/logrus"
)

type RegisterDriverInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	VehicleType   string `json:"vehicle_type"`
	Capacity      int    `json:"capacity"`
	District      string `json:"district"`
}

type DriverUseCase interface {
	RegisterDriver(ctx context.Context, input RegisterDriverInput) (*domain.Driver, error)
	GetDriver(ctx context.Context, id int) (*domain.Driver, error)
	SearchDrivers(ctx context.Context, filters domain.DriverFilters) ([]domain.Driver, error)
	UpdateDriver(ctx context.Context, id int, updates map[string]interface{}) (*domain.Driver, error)
	ToggleAvailability(ctx context.Context, id int, value domain.DriverAvailability) (*domain.Driver, error)
	SoftDeleteDriver(ctx context.Context, id int) error
}

type driverUseCase struct {
	driverRepo domain.DriverRepository
	log        *logrus.Logger
}

func NewDriverUseCase(repo domain.DriverRepository, logger *logrus.Logger) DriverUseCase {
	return &driverUseCase{
		driverRepo: repo,
		log:        logger,
	}
}

func (uc *driverUseCase) RegisterDriver(ctx context.Context, input RegisterDriverInput) (*domain.Driver, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: driver name cannot be empty", domain.ErrValidation)
	}
	if input.LicenseNumber == "" {
		return nil, fmt.Errorf("%w: license number cannot be empty", domain.ErrValidation)
	}
	if input.VehicleType == "" {
		return nil, fmt.Errorf("%w: vehicle type cannot be empty", domain.ErrValidation)
	}
	if input.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", domain.ErrValidation)
	}

	driver := &domain.Driver{
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		LicenseNumber: input.LicenseNumber,
		VehicleType:   input.VehicleType,
		Capacity:      input.Capacity,
		District:      input.District,
		Availability:  domain.DriverAvailable,
		Status:        domain.DriverStatusActive,
	}
	created, err := uc.driverRepo.CreateDriver(ctx, driver)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to register driver '%s': %v", input.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Driver '%s' registered with ID %d", created.Name, created.ID)
	return created, nil
}

func (uc *driverUseCase) GetDriver(ctx context.Context, id int) (*domain.Driver, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid driver ID", domain.ErrValidation)
	}
	return uc.driverRepo.GetDriverByID(ctx, id)
}

func (uc *driverUseCase) SearchDrivers(ctx context.Context, filters domain.DriverFilters) ([]domain.Driver, error) {
	if filters.Availability != "" && !domain.IsValidDriverAvailability(filters.Availability) {
		return nil, fmt.Errorf("%w: invalid availability filter '%s'", domain.ErrValidation, filters.Availability)
	}
	if filters.Status != "" && !domain.IsValidDriverStatus(filters.Status) {
		return nil, fmt.Errorf("%w: invalid status filter '%s'", domain.ErrValidation, filters.Status)
	}
	if filters.MinCapacity < 0 {
		return nil, fmt.Errorf("%w: minimum capacity cannot be negative", domain.ErrValidation)
	}
	return uc.driverRepo.SearchDrivers(ctx, filters)
}

func (uc *driverUseCase) UpdateDriver(ctx context.Context, id int, updates map[string]interface{}) (*domain.Driver, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid driver ID", domain.ErrValidation)
	}
	if status, ok := updates["status"]; ok {
		s, isString := status.(string)
		if !isString || !domain.IsValidDriverStatus(domain.DriverStatus(s)) {
			return nil, fmt.Errorf("%w: invalid driver status value", domain.ErrValidation)
		}
	}
	if rating, ok := updates["rating"]; ok {
		v, isFloat := rating.(float64)
		if !isFloat || v < 0 || v > 5 {
			return nil, fmt.Errorf("%w: rating must be between 0 and 5", domain.ErrValidation)
		}
	}
	return uc.driverRepo.UpdateDriver(ctx, id, updates)
}

func (uc *driverUseCase) ToggleAvailability(ctx context.Context, id int, value domain.DriverAvailability) (*domain.Driver, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid driver ID", domain.ErrValidation)
	}
	if !domain.IsValidDriverAvailability(value) {
		uc.log.Warnf("Use Case: Rejected availability value '%s' for driver %d", value, id)
		return nil, fmt.Errorf("%w: availability must be one of available, unavailable, busy", domain.ErrValidation)
	}

	driver, err := uc.driverRepo.SetAvailability(ctx, id, value)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to set availability for driver %d: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Driver %d availability set to '%s'", id, value)
	return driver, nil
}

func (uc *driverUseCase) SoftDeleteDriver(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid driver ID", domain.ErrValidation)
	}
	// Soft delete keeps the row so delivery history references stay intact.
	return uc.driverRepo.SoftDeleteDriver(ctx, id)
}
