package domain

import (
	"context"
	"time"
)

type DriverAvailability string

const (
	DriverAvailable   DriverAvailability = "available"
	DriverBusy        DriverAvailability = "busy"
	DriverUnavailable DriverAvailability = "unavailable"
)

func IsValidDriverAvailability(a DriverAvailability) bool {
	switch a {
	case DriverAvailable, DriverBusy, DriverUnavailable:
		return true
	default:
		return false
	}
}

type DriverStatus string

const (
	DriverStatusActive   DriverStatus = "active"
	DriverStatusInactive DriverStatus = "inactive"
	DriverStatusOnLeave  DriverStatus = "on_leave"
)

func IsValidDriverStatus(s DriverStatus) bool {
	switch s {
	case DriverStatusActive, DriverStatusInactive, DriverStatusOnLeave:
		return true
	default:
		return false
	}
}

type Driver struct {
	ID                  int                `json:"id"`
	Name                string             `json:"name"`
	Email               string             `json:"email"`
	Phone               string             `json:"phone"`
	LicenseNumber       string             `json:"license_number"`
	VehicleType         string             `json:"vehicle_type"`
	Capacity            int                `json:"capacity"`
	District            string             `json:"district"`
	Availability        DriverAvailability `json:"availability"`
	Status              DriverStatus       `json:"status"`
	TotalDeliveries     int                `json:"total_deliveries"`
	CompletedDeliveries int                `json:"completed_deliveries"`
	Rating              float64            `json:"rating"`
	CurrentDeliveryID   *int               `json:"current_delivery_id,omitempty"`
	IsDeleted           bool               `json:"is_deleted"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// DriverFilters narrows a search; zero values mean "any".
type DriverFilters struct {
	Name         string
	VehicleType  string
	MinCapacity  int
	Availability DriverAvailability
	Status       DriverStatus
	District     string
}

type DriverRepository interface {
	CreateDriver(ctx context.Context, driver *Driver) (*Driver, error)
	GetDriverByID(ctx context.Context, id int) (*Driver, error)
	// SearchDrivers returns non-deleted matches ordered by district, status,
	// rating desc, total deliveries desc.
	SearchDrivers(ctx context.Context, filters DriverFilters) ([]Driver, error)
	UpdateDriver(ctx context.Context, id int, updates map[string]interface{}) (*Driver, error)
	SetAvailability(ctx context.Context, id int, availability DriverAvailability) (*Driver, error)
	// AssignDelivery marks the driver busy, records the active delivery and
	// bumps total_deliveries, atomically.
	AssignDelivery(ctx context.Context, driverID, deliveryID int) error
	// CompleteAssignment frees the driver and bumps completed_deliveries.
	CompleteAssignment(ctx context.Context, driverID int) error
	// ReleaseAssignment frees the driver without crediting a completion.
	ReleaseAssignment(ctx context.Context, driverID int) error
	SoftDeleteDriver(ctx context.Context, id int) error
}
