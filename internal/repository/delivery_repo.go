package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/sirupsen/logrus"
)

type postgresDeliveryRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresDeliveryRepository(db *sql.DB, logger *logrus.Logger) domain.DeliveryRepository {
	return &postgresDeliveryRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresDeliveryRepository) CreateDelivery(ctx context.Context, delivery *domain.Delivery) (*domain.Delivery, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin transaction for delivery creation: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("CreateDelivery: Failed to rollback transaction: %v (original error: %v)", rbErr, err)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				err = fmt.Errorf("failed to commit delivery creation transaction: %w", cErr)
				r.log.Errorf("CreateDelivery: %v", err)
			}
		}
	}()

	insertQuery := `
        INSERT INTO deliveries (order_id, customer_id, driver_id, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, status, is_deleted, created_at, updated_at
    `
	err = tx.QueryRowContext(ctx, insertQuery, delivery.OrderID, delivery.CustomerID, delivery.DriverID, delivery.Status).Scan(
		&delivery.ID,
		&delivery.Status,
		&delivery.IsDeleted,
		&delivery.CreatedAt,
		&delivery.UpdatedAt,
	)
	if err != nil {
		r.log.Errorf("Failed to insert delivery for order %d: %v", delivery.OrderID, err)
		return nil, fmt.Errorf("could not create delivery: %w", err)
	}

	entry := domain.StatusHistoryEntry{Status: delivery.Status}
	historyQuery := `
        INSERT INTO delivery_status_history (delivery_id, status, location, notes)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at
    `
	err = tx.QueryRowContext(ctx, historyQuery, delivery.ID, entry.Status, entry.Location, entry.Notes).Scan(&entry.Timestamp)
	if err != nil {
		r.log.Errorf("Failed to insert initial status history for delivery %d: %v", delivery.ID, err)
		return nil, fmt.Errorf("could not record delivery status history: %w", err)
	}
	delivery.StatusHistory = []domain.StatusHistoryEntry{entry}

	r.log.Infof("Delivery %d created for order %d (driver %d)", delivery.ID, delivery.OrderID, delivery.DriverID)
	return delivery, nil
}

func (r *postgresDeliveryRepository) GetDeliveryByID(ctx context.Context, id int) (*domain.Delivery, error) {
	delivery := &domain.Delivery{}
	var (
		signature    sql.NullString
		photo        sql.NullString
		customerName sql.NullString
		confNotes    sql.NullString
		confirmedAt  sql.NullTime
		estimated    sql.NullTime
		actual       sql.NullTime
	)
	query := `
        SELECT id, order_id, customer_id, driver_id, status,
               confirmation_signature, confirmation_photo, confirmation_customer_name,
               confirmation_notes, confirmed_at,
               estimated_delivery_time, actual_delivery_time,
               is_deleted, created_at, updated_at
        FROM deliveries
        WHERE id = $1 AND is_deleted = FALSE
    `
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&delivery.ID,
		&delivery.OrderID,
		&delivery.CustomerID,
		&delivery.DriverID,
		&delivery.Status,
		&signature,
		&photo,
		&customerName,
		&confNotes,
		&confirmedAt,
		&estimated,
		&actual,
		&delivery.IsDeleted,
		&delivery.CreatedAt,
		&delivery.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Delivery with ID %d not found", id)
			return nil, fmt.Errorf("%w: delivery with id %d", domain.ErrNotFound, id)
		}
		r.log.Errorf("Failed to get delivery by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve delivery: %w", err)
	}

	if confirmedAt.Valid {
		delivery.Confirmation = &domain.DeliveryConfirmation{
			Signature:    signature.String,
			Photo:        photo.String,
			CustomerName: customerName.String,
			Notes:        confNotes.String,
			ConfirmedAt:  confirmedAt.Time,
		}
	}
	if estimated.Valid {
		delivery.EstimatedDeliveryTime = &estimated.Time
	}
	if actual.Valid {
		delivery.ActualDeliveryTime = &actual.Time
	}

	history, err := r.getStatusHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	delivery.StatusHistory = history

	return delivery, nil
}

func (r *postgresDeliveryRepository) getStatusHistory(ctx context.Context, deliveryID int) ([]domain.StatusHistoryEntry, error) {
	query := `
        SELECT status, location, notes, created_at
        FROM delivery_status_history
        WHERE delivery_id = $1
        ORDER BY created_at ASC, id ASC
    `
	rows, err := r.db.QueryContext(ctx, query, deliveryID)
	if err != nil {
		r.log.Errorf("Failed to query status history for delivery %d: %v", deliveryID, err)
		return nil, fmt.Errorf("could not retrieve delivery status history: %w", err)
	}
	defer rows.Close()

	entries := []domain.StatusHistoryEntry{}
	for rows.Next() {
		var entry domain.StatusHistoryEntry
		if err := rows.Scan(&entry.Status, &entry.Location, &entry.Notes, &entry.Timestamp); err != nil {
			r.log.Errorf("Failed to scan status history row for delivery %d: %v", deliveryID, err)
			return nil, fmt.Errorf("error scanning status history: %w", err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during status history iteration for delivery %d: %v", deliveryID, err)
		return nil, fmt.Errorf("error iterating status history: %w", err)
	}

	return entries, nil
}

func (r *postgresDeliveryRepository) ListDeliveries(ctx context.Context, status *domain.DeliveryStatus, limit, offset int) ([]domain.Delivery, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT id, order_id, customer_id, driver_id, status,
               estimated_delivery_time, actual_delivery_time,
               is_deleted, created_at, updated_at
        FROM deliveries
        WHERE is_deleted = FALSE
    `
	args := []interface{}{}
	if status != nil {
		query += ` AND status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Failed to list deliveries: %v", err)
		return nil, fmt.Errorf("could not retrieve deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []domain.Delivery{}
	for rows.Next() {
		var d domain.Delivery
		var estimated, actual sql.NullTime
		if err := rows.Scan(
			&d.ID,
			&d.OrderID,
			&d.CustomerID,
			&d.DriverID,
			&d.Status,
			&estimated,
			&actual,
			&d.IsDeleted,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan delivery row: %v", err)
			return nil, fmt.Errorf("error scanning delivery: %w", err)
		}
		if estimated.Valid {
			d.EstimatedDeliveryTime = &estimated.Time
		}
		if actual.Valid {
			d.ActualDeliveryTime = &actual.Time
		}
		deliveries = append(deliveries, d)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during deliveries iteration: %v", err)
		return nil, fmt.Errorf("error iterating deliveries: %w", err)
	}

	return deliveries, nil
}

func (r *postgresDeliveryRepository) SaveTransition(ctx context.Context, delivery *domain.Delivery, entry domain.StatusHistoryEntry) (*domain.Delivery, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin transaction for delivery transition: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("SaveTransition: Failed to rollback transaction: %v (original error: %v)", rbErr, err)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				err = fmt.Errorf("failed to commit delivery transition transaction: %w", cErr)
				r.log.Errorf("SaveTransition: %v", err)
			}
		}
	}()

	var (
		signature    interface{}
		photo        interface{}
		customerName interface{}
		confNotes    interface{}
		confirmedAt  interface{}
	)
	if delivery.Confirmation != nil {
		signature = delivery.Confirmation.Signature
		photo = delivery.Confirmation.Photo
		customerName = delivery.Confirmation.CustomerName
		confNotes = delivery.Confirmation.Notes
		confirmedAt = delivery.Confirmation.ConfirmedAt
	}

	updateQuery := `
        UPDATE deliveries
        SET status = $1,
            estimated_delivery_time = $2,
            actual_delivery_time = $3,
            confirmation_signature = $4,
            confirmation_photo = $5,
            confirmation_customer_name = $6,
            confirmation_notes = $7,
            confirmed_at = $8,
            updated_at = NOW()
        WHERE id = $9 AND is_deleted = FALSE
        RETURNING updated_at
    `
	err = tx.QueryRowContext(ctx, updateQuery,
		delivery.Status,
		delivery.EstimatedDeliveryTime,
		delivery.ActualDeliveryTime,
		signature,
		photo,
		customerName,
		confNotes,
		confirmedAt,
		delivery.ID,
	).Scan(&delivery.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Delivery with ID %d not found for transition", delivery.ID)
			err = fmt.Errorf("%w: delivery with id %d", domain.ErrNotFound, delivery.ID)
			return nil, err
		}
		r.log.Errorf("Failed to update delivery %d: %v", delivery.ID, err)
		return nil, fmt.Errorf("could not update delivery: %w", err)
	}

	historyQuery := `
        INSERT INTO delivery_status_history (delivery_id, status, location, notes)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at
    `
	err = tx.QueryRowContext(ctx, historyQuery, delivery.ID, entry.Status, entry.Location, entry.Notes).Scan(&entry.Timestamp)
	if err != nil {
		r.log.Errorf("Failed to insert status history for delivery %d: %v", delivery.ID, err)
		return nil, fmt.Errorf("could not record delivery status history: %w", err)
	}
	delivery.StatusHistory = append(delivery.StatusHistory, entry)

	r.log.Infof("Delivery %d transitioned to '%s'", delivery.ID, delivery.Status)
	return delivery, nil
}

func (r *postgresDeliveryRepository) SoftDeleteDelivery(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE deliveries SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		r.log.Errorf("Failed to soft delete delivery %d: %v", id, err)
		return fmt.Errorf("could not delete delivery: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not verify delivery deletion: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Delivery with ID %d not found for deletion", id)
		return fmt.Errorf("%w: delivery with id %d", domain.ErrNotFound, id)
	}
	r.log.Infof("Delivery %d soft deleted", id)
	return nil
}
