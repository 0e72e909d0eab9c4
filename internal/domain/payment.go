package domain

import (
	"context"
	"time"
)

type PaymentMethod string

const (
	MethodCardCredit     PaymentMethod = "card-credit"
	MethodCardDebit      PaymentMethod = "card-debit"
	MethodWallet         PaymentMethod = "wallet"
	MethodGateway        PaymentMethod = "gateway"
	MethodCashOnDelivery PaymentMethod = "cash-on-delivery"
)

func IsValidPaymentMethod(method PaymentMethod) bool {
	switch method {
	case MethodCardCredit, MethodCardDebit, MethodWallet, MethodGateway, MethodCashOnDelivery:
		return true
	default:
		return false
	}
}

// IsInstantMethod reports whether the payment settles at creation time.
// Gateway payments wait for an external callback and cash settles on fulfillment.
func IsInstantMethod(method PaymentMethod) bool {
	switch method {
	case MethodCardCredit, MethodCardDebit, MethodWallet:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusSuccessful PaymentStatus = "successful"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

func IsValidPaymentStatus(status PaymentStatus) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusSuccessful, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransitionPayment defines the legal status moves: pending may settle or
// fail, successful may only be refunded, failed and refunded are terminal.
func CanTransitionPayment(from, to PaymentStatus) bool {
	switch from {
	case PaymentStatusPending:
		return to == PaymentStatusSuccessful || to == PaymentStatusFailed
	case PaymentStatusSuccessful:
		return to == PaymentStatusRefunded
	default:
		return false
	}
}

type Payment struct {
	ID            int           `json:"id"`
	OrderID       int           `json:"order_id"`
	CustomerID    int           `json:"customer_id"`
	Amount        float64       `json:"amount"`
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id"`
	IsDeleted     bool          `json:"is_deleted"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *Payment) (*Payment, error)
	GetPaymentByID(ctx context.Context, id int) (*Payment, error)
	ListPaymentsByCustomer(ctx context.Context, customerID, limit, offset int) ([]Payment, error)
	// TransitionStatus performs an atomic conditional update: the row moves
	// from→to only if its persisted status still equals from. The returned
	// bool reports whether this call performed the transition; false with a
	// nil error means another request already moved the payment (the caller
	// must treat the transition's side effects as already applied).
	TransitionStatus(ctx context.Context, id int, from, to PaymentStatus) (*Payment, bool, error)
	SoftDeletePayment(ctx context.Context, id int) error
}
