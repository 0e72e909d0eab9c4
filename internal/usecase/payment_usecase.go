package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/HeshalD/CeylonMart-sub001/internal/clients"
	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/HeshalD/CeylonMart-sub001/pkg/metrics"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CreatePaymentInput struct {
	OrderID       int                  `json:"order_id"`
	CustomerID    int                  `json:"customer_id"`
	Amount        float64              `json:"amount"`
	Method        domain.PaymentMethod `json:"method"`
	TransactionID string               `json:"transaction_id"`
}

type PaymentUseCase interface {
	CreatePayment(ctx context.Context, input CreatePaymentInput) (*domain.Payment, error)
	GetPayment(ctx context.Context, id int) (*domain.Payment, error)
	ListPaymentsByCustomer(ctx context.Context, customerID, limit, offset int) ([]domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id int, newStatus domain.PaymentStatus) (*domain.Payment, error)
	SoftDeletePayment(ctx context.Context, id int) error
}

type paymentUseCase struct {
	paymentRepo domain.PaymentRepository
	orderRepo   domain.OrderRepository
	ledger      InventoryUseCase
	notifier    clients.NotifierClient
	metrics     *metrics.Metrics
	log         *logrus.Logger
}

func NewPaymentUseCase(
	paymentRepo domain.PaymentRepository,
	orderRepo domain.OrderRepository,
	ledger InventoryUseCase,
	notifier clients.NotifierClient,
	m *metrics.Metrics,
	logger *logrus.Logger,
) PaymentUseCase {
	return &paymentUseCase{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		ledger:      ledger,
		notifier:    notifier,
		metrics:     m,
		log:         logger,
	}
}

func (uc *paymentUseCase) CreatePayment(ctx context.Context, input CreatePaymentInput) (*domain.Payment, error) {
	if input.OrderID <= 0 {
		return nil, fmt.Errorf("%w: invalid order ID", domain.ErrValidation)
	}
	if input.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: invalid customer ID", domain.ErrValidation)
	}
	if input.Amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", domain.ErrValidation)
	}
	if !domain.IsValidPaymentMethod(input.Method) {
		return nil, fmt.Errorf("%w: invalid payment method '%s'", domain.ErrValidation, input.Method)
	}

	order, err := uc.orderRepo.GetOrderByID(ctx, input.OrderID)
	if err != nil {
		uc.log.Warnf("Use Case: Payment creation failed, order %d unavailable: %v", input.OrderID, err)
		return nil, err
	}

	transactionID := input.TransactionID
	if transactionID == "" {
		transactionID = uuid.New().String()
		uc.log.Infof("Use Case: Generated transaction ID %s for order %d", transactionID, input.OrderID)
	}

	initialStatus := domain.PaymentStatusPending
	if domain.IsInstantMethod(input.Method) {
		initialStatus = domain.PaymentStatusSuccessful
	}

	payment := &domain.Payment{
		OrderID:       input.OrderID,
		CustomerID:    input.CustomerID,
		Amount:        input.Amount,
		Method:        input.Method,
		Status:        initialStatus,
		TransactionID: transactionID,
	}
	created, err := uc.paymentRepo.CreatePayment(ctx, payment)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to create payment for order %d: %v", input.OrderID, err)
		return nil, err
	}

	uc.metrics.PaymentsProcessed.WithLabelValues(string(created.Method), string(created.Status)).Inc()

	if created.Status == domain.PaymentStatusSuccessful {
		uc.settle(ctx, created, order)
	}

	uc.log.Infof("Use Case: Payment %d created for order %d (method: %s, status: %s)",
		created.ID, created.OrderID, created.Method, created.Status)
	return created, nil
}

func (uc *paymentUseCase) GetPayment(ctx context.Context, id int) (*domain.Payment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid payment ID", domain.ErrValidation)
	}
	return uc.paymentRepo.GetPaymentByID(ctx, id)
}

func (uc *paymentUseCase) ListPaymentsByCustomer(ctx context.Context, customerID, limit, offset int) ([]domain.Payment, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: invalid customer ID", domain.ErrValidation)
	}
	return uc.paymentRepo.ListPaymentsByCustomer(ctx, customerID, limit, offset)
}

// UpdatePaymentStatus performs the guarded transition. The move into
// successful rides on the repository's atomic conditional update: only the
// request that actually flips pending→successful runs the settlement
// pipeline, so a retried or concurrent duplicate can never double-decrement
// stock. A resubmit of an already-reached status is accepted as a no-op.
func (uc *paymentUseCase) UpdatePaymentStatus(ctx context.Context, id int, newStatus domain.PaymentStatus) (*domain.Payment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid payment ID", domain.ErrValidation)
	}
	if !domain.IsValidPaymentStatus(newStatus) {
		return nil, fmt.Errorf("%w: invalid payment status '%s'", domain.ErrValidation, newStatus)
	}
	if newStatus == domain.PaymentStatusPending {
		return nil, fmt.Errorf("%w: payment cannot be moved back to pending", domain.ErrValidation)
	}

	var expectedFrom domain.PaymentStatus
	switch newStatus {
	case domain.PaymentStatusSuccessful, domain.PaymentStatusFailed:
		expectedFrom = domain.PaymentStatusPending
	case domain.PaymentStatusRefunded:
		expectedFrom = domain.PaymentStatusSuccessful
	}

	payment, transitioned, err := uc.paymentRepo.TransitionStatus(ctx, id, expectedFrom, newStatus)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to transition payment %d to '%s': %v", id, newStatus, err)
		return nil, err
	}

	if !transitioned {
		if payment.Status == newStatus {
			// Retried request; the side effects already ran exactly once.
			uc.log.Infof("Use Case: Payment %d already '%s'; treating update as idempotent no-op", id, newStatus)
			if newStatus == domain.PaymentStatusSuccessful {
				uc.metrics.DecrementSkipped.Inc()
			}
			return payment, nil
		}
		uc.log.Warnf("Use Case: Illegal transition for payment %d: '%s' -> '%s'", id, payment.Status, newStatus)
		return nil, fmt.Errorf("%w: payment %d cannot move from '%s' to '%s'", domain.ErrInvalidState, id, payment.Status, newStatus)
	}

	uc.metrics.PaymentsProcessed.WithLabelValues(string(payment.Method), string(payment.Status)).Inc()

	if newStatus == domain.PaymentStatusSuccessful {
		order, err := uc.orderRepo.GetOrderByID(ctx, payment.OrderID)
		if err != nil {
			// The payment is settled; the remaining steps are retryable
			// against the sale markers, so surface the order problem.
			uc.log.Errorf("Use Case: Payment %d settled but order %d unavailable: %v", id, payment.OrderID, err)
			return payment, nil
		}
		uc.settle(ctx, payment, order)
	}

	uc.log.Infof("Use Case: Payment %d status updated to '%s'", id, payment.Status)
	return payment, nil
}

// settle runs the post-success pipeline: advance the order, decrement
// inventory, reset the cart, dispatch the receipt. Each step is individually
// idempotent; only the caller that won the conditional status transition (or
// created the payment directly successful) reaches this point.
func (uc *paymentUseCase) settle(ctx context.Context, payment *domain.Payment, order *domain.Order) {
	// Step 1: advance the order. Cash on delivery stays pending until
	// fulfillment confirms it.
	if payment.Method != domain.MethodCashOnDelivery {
		if _, err := uc.orderRepo.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusConfirmed); err != nil {
			uc.log.Errorf("Use Case: Failed to confirm order %d after payment %d: %v", order.ID, payment.ID, err)
		} else {
			uc.log.Infof("Use Case: Order %d confirmed after payment %d", order.ID, payment.ID)
		}
	} else {
		uc.log.Infof("Use Case: Order %d kept pending for cash-on-delivery payment %d", order.ID, payment.ID)
	}

	// Step 2: decrement inventory once. The ledger's per-(payment, product)
	// sale markers make a retry of this step a no-op.
	results, err := uc.ledger.ApplySale(ctx, payment.ID, order.Items)
	if err != nil {
		uc.log.Errorf("Use Case: Inventory decrement failed for payment %d: %v", payment.ID, err)
	} else {
		for _, result := range results {
			if !result.Applied {
				uc.log.Warnf("Use Case: Sale item not applied for payment %d (product %d): %s",
					payment.ID, result.ProductID, result.Error)
			}
		}
	}

	// Step 3: reset the customer's cart so the next purchase starts fresh.
	// The paid order itself is left untouched when it still holds the
	// pending slot (cash on delivery).
	cart, err := uc.orderRepo.GetPendingOrderByCustomer(ctx, payment.CustomerID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.log.Errorf("Use Case: Failed to look up cart for customer %d after payment %d: %v", payment.CustomerID, payment.ID, err)
		}
	} else if cart.ID != order.ID {
		if _, err := uc.orderRepo.ReplaceItems(ctx, cart.ID, []domain.OrderItem{}, 0); err != nil {
			uc.log.Errorf("Use Case: Failed to reset cart %d for customer %d: %v", cart.ID, payment.CustomerID, err)
		} else {
			uc.log.Infof("Use Case: Cart %d reset for customer %d after payment %d", cart.ID, payment.CustomerID, payment.ID)
		}
	}

	// Step 4: best-effort receipt; notifier failures never fail the payment.
	receipt := clients.Receipt{
		PaymentID:     payment.ID,
		OrderID:       payment.OrderID,
		CustomerID:    payment.CustomerID,
		Amount:        payment.Amount,
		Method:        string(payment.Method),
		TransactionID: payment.TransactionID,
		Reference:     uuid.New().String(),
	}
	if err := uc.notifier.SendReceipt(ctx, receipt); err != nil {
		uc.log.Warnf("Use Case: Receipt notification failed for payment %d (ignored): %v", payment.ID, err)
	}
}

func (uc *paymentUseCase) SoftDeletePayment(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid payment ID", domain.ErrValidation)
	}
	// Soft delete only hides the record. Inventory effects are never
	// reversed here; a deliberate compensating restock entry is the way to
	// undo a sale.
	return uc.paymentRepo.SoftDeletePayment(ctx, id)
}
