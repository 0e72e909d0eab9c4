package domain

import (
	"context"
	"time"
)

type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusPicked    DeliveryStatus = "picked"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

func IsValidDeliveryStatus(status DeliveryStatus) bool {
	switch status {
	case DeliveryStatusPending, DeliveryStatusPicked, DeliveryStatusInTransit, DeliveryStatusDelivered, DeliveryStatusFailed:
		return true
	default:
		return false
	}
}

// CanTransitionDelivery defines the forward-only state machine:
// pending→picked→in_transit→{delivered,failed}. Delivered and failed are terminal.
func CanTransitionDelivery(from, to DeliveryStatus) bool {
	switch from {
	case DeliveryStatusPending:
		return to == DeliveryStatusPicked
	case DeliveryStatusPicked:
		return to == DeliveryStatusInTransit
	case DeliveryStatusInTransit:
		return to == DeliveryStatusDelivered || to == DeliveryStatusFailed
	default:
		return false
	}
}

type StatusHistoryEntry struct {
	Status    DeliveryStatus `json:"status"`
	Location  string         `json:"location,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// DeliveryConfirmation is set once when the customer signs off the handover.
type DeliveryConfirmation struct {
	Signature    string    `json:"signature,omitempty"`
	Photo        string    `json:"photo,omitempty"`
	CustomerName string    `json:"customer_name,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
}

type Delivery struct {
	ID                    int                   `json:"id"`
	OrderID               int                   `json:"order_id"`
	CustomerID            int                   `json:"customer_id"`
	DriverID              int                   `json:"driver_id"`
	Status                DeliveryStatus        `json:"status"`
	StatusHistory         []StatusHistoryEntry  `json:"status_history"`
	Confirmation          *DeliveryConfirmation `json:"confirmation,omitempty"`
	EstimatedDeliveryTime *time.Time            `json:"estimated_delivery_time,omitempty"`
	ActualDeliveryTime    *time.Time            `json:"actual_delivery_time,omitempty"`
	IsDeleted             bool                  `json:"is_deleted"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

type DeliveryRepository interface {
	CreateDelivery(ctx context.Context, delivery *Delivery) (*Delivery, error)
	GetDeliveryByID(ctx context.Context, id int) (*Delivery, error)
	ListDeliveries(ctx context.Context, status *DeliveryStatus, limit, offset int) ([]Delivery, error)
	// SaveTransition persists the delivery's current status, timestamps and
	// confirmation, and appends the history entry, in one transaction.
	SaveTransition(ctx context.Context, delivery *Delivery, entry StatusHistoryEntry) (*Delivery, error)
	SoftDeleteDelivery(ctx context.Context, id int) error
}
