package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresPaymentRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresPaymentRepository(db *sql.DB, logger *logrus.Logger) domain.PaymentRepository {
	return &postgresPaymentRepository{
		db:  db,
		log: logger,
	}
}

const paymentColumns = `id, order_id, customer_id, amount, method, status, transaction_id, is_deleted, created_at, updated_at`

func scanPayment(row interface{ Scan(...interface{}) error }, p *domain.Payment) error {
	return row.Scan(
		&p.ID,
		&p.OrderID,
		&p.CustomerID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.TransactionID,
		&p.IsDeleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *postgresPaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	query := `
        INSERT INTO payments (order_id, customer_id, amount, method, status, transaction_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + paymentColumns

	err := scanPayment(r.db.QueryRowContext(ctx, query,
		payment.OrderID,
		payment.CustomerID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.TransactionID,
	), payment)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				r.log.Warnf("Duplicate transaction ID '%s' for order %d", payment.TransactionID, payment.OrderID)
				return nil, fmt.Errorf("%w: transaction id '%s' already exists", domain.ErrConflict, payment.TransactionID)
			case "23503":
				r.log.Warnf("Payment references missing order %d: %v", payment.OrderID, err)
				return nil, fmt.Errorf("%w: order with id %d", domain.ErrNotFound, payment.OrderID)
			case "23514":
				r.log.Warnf("Check constraint violation creating payment for order %d: %s", payment.OrderID, pqErr.Message)
				return nil, fmt.Errorf("%w: payment data constraint violation: %s", domain.ErrValidation, pqErr.Message)
			}
		}
		r.log.Errorf("Failed to create payment for order %d: %v", payment.OrderID, err)
		return nil, fmt.Errorf("could not create payment: %w", err)
	}

	r.log.Infof("Payment %d created for order %d (method: %s, status: %s, tx: %s)",
		payment.ID, payment.OrderID, payment.Method, payment.Status, payment.TransactionID)
	return payment, nil
}

func (r *postgresPaymentRepository) GetPaymentByID(ctx context.Context, id int) (*domain.Payment, error) {
	payment := &domain.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 AND is_deleted = FALSE`

	err := scanPayment(r.db.QueryRowContext(ctx, query, id), payment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Payment with ID %d not found", id)
			return nil, fmt.Errorf("%w: payment with id %d", domain.ErrNotFound, id)
		}
		r.log.Errorf("Failed to get payment by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve payment: %w", err)
	}

	return payment, nil
}

func (r *postgresPaymentRepository) ListPaymentsByCustomer(ctx context.Context, customerID, limit, offset int) ([]domain.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE customer_id = $1 AND is_deleted = FALSE
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.QueryContext(ctx, query, customerID, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list payments for customer %d: %v", customerID, err)
		return nil, fmt.Errorf("could not retrieve payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		if err := scanPayment(rows, &p); err != nil {
			r.log.Errorf("Failed to scan payment row for customer %d: %v", customerID, err)
			return nil, fmt.Errorf("error scanning payment data: %w", err)
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during payments iteration for customer %d: %v", customerID, err)
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	return payments, nil
}

// TransitionStatus is the conditional update guarding the whole pipeline: the
// WHERE clause pins the expected current status, so two concurrent retries of
// the same transition can never both win. Zero rows affected means the payment
// either does not exist or is no longer in the expected status; the caller
// gets the current row and transitioned=false.
func (r *postgresPaymentRepository) TransitionStatus(ctx context.Context, id int, from, to domain.PaymentStatus) (*domain.Payment, bool, error) {
	payment := &domain.Payment{}
	query := `
        UPDATE payments
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3 AND is_deleted = FALSE
        RETURNING ` + paymentColumns

	err := scanPayment(r.db.QueryRowContext(ctx, query, to, id, from), payment)
	if err == nil {
		r.log.Infof("Payment %d transitioned from '%s' to '%s'", id, from, to)
		return payment, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		r.log.Errorf("Failed to transition payment %d from '%s' to '%s': %v", id, from, to, err)
		return nil, false, fmt.Errorf("could not update payment status: %w", err)
	}

	current, getErr := r.GetPaymentByID(ctx, id)
	if getErr != nil {
		return nil, false, getErr
	}
	r.log.Warnf("Payment %d not transitioned to '%s': current status is '%s', expected '%s'", id, to, current.Status, from)
	return current, false, nil
}

func (r *postgresPaymentRepository) SoftDeletePayment(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE payments SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		r.log.Errorf("Failed to soft delete payment %d: %v", id, err)
		return fmt.Errorf("could not delete payment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not verify payment deletion: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Payment with ID %d not found for deletion", id)
		return fmt.Errorf("%w: payment with id %d", domain.ErrNotFound, id)
	}
	r.log.Infof("Payment %d soft deleted", id)
	return nil
}
