package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresDriverRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresDriverRepository(db *sql.DB, logger *logrus.Logger) domain.DriverRepository {
	return &postgresDriverRepository{
		db:  db,
		log: logger,
	}
}

const driverColumns = `id, name, email, phone, license_number, vehicle_type, capacity, district,
       availability, status, total_deliveries, completed_deliveries, rating,
       current_delivery_id, is_deleted, created_at, updated_at`

func scanDriver(row interface{ Scan(...interface{}) error }, d *domain.Driver) error {
	var currentDelivery sql.NullInt64
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Email,
		&d.Phone,
		&d.LicenseNumber,
		&d.VehicleType,
		&d.Capacity,
		&d.District,
		&d.Availability,
		&d.Status,
		&d.TotalDeliveries,
		&d.CompletedDeliveries,
		&d.Rating,
		&currentDelivery,
		&d.IsDeleted,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if currentDelivery.Valid {
		id := int(currentDelivery.Int64)
		d.CurrentDeliveryID = &id
	}
	return nil
}

func (r *postgresDriverRepository) CreateDriver(ctx context.Context, driver *domain.Driver) (*domain.Driver, error) {
	query := `
        INSERT INTO drivers (name, email, phone, license_number, vehicle_type, capacity, district, availability, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + driverColumns

	err := scanDriver(r.db.QueryRowContext(ctx, query,
		driver.Name,
		driver.Email,
		driver.Phone,
		driver.LicenseNumber,
		driver.VehicleType,
		driver.Capacity,
		driver.District,
		driver.Availability,
		driver.Status,
	), driver)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Duplicate driver (email '%s' or license '%s')", driver.Email, driver.LicenseNumber)
			return nil, fmt.Errorf("%w: driver with this email or license already exists", domain.ErrConflict)
		}
		r.log.Errorf("Failed to create driver '%s': %v", driver.Name, err)
		return nil, fmt.Errorf("could not create driver: %w", err)
	}

	r.log.Infof("Driver created with ID: %d, Name: %s", driver.ID, driver.Name)
	return driver, nil
}

func (r *postgresDriverRepository) GetDriverByID(ctx context.Context, id int) (*domain.Driver, error) {
	driver := &domain.Driver{}
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1 AND is_deleted = FALSE`

	err := scanDriver(r.db.QueryRowContext(ctx, query, id), driver)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Driver with ID %d not found", id)
			return nil, fmt.Errorf("%w: driver with id %d", domain.ErrNotFound, id)
		}
		r.log.Errorf("Failed to get driver by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve driver: %w", err)
	}

	return driver, nil
}

func (r *postgresDriverRepository) SearchDrivers(ctx context.Context, filters domain.DriverFilters) ([]domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE is_deleted = FALSE`
	args := []interface{}{}
	argCounter := 1

	addClause := func(clause string, value interface{}) {
		query += fmt.Sprintf(" AND "+clause, argCounter)
		args = append(args, value)
		argCounter++
	}

	if filters.Name != "" {
		addClause("name ILIKE $%d", "%"+filters.Name+"%")
	}
	if filters.VehicleType != "" {
		addClause("vehicle_type = $%d", filters.VehicleType)
	}
	if filters.MinCapacity > 0 {
		addClause("capacity >= $%d", filters.MinCapacity)
	}
	if filters.Availability != "" {
		addClause("availability = $%d", filters.Availability)
	}
	if filters.Status != "" {
		addClause("status = $%d", filters.Status)
	}
	if filters.District != "" {
		addClause("district = $%d", filters.District)
	}

	query += ` ORDER BY district ASC, status ASC, rating DESC, total_deliveries DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Failed to search drivers: %v", err)
		return nil, fmt.Errorf("could not search drivers: %w", err)
	}
	defer rows.Close()

	drivers := []domain.Driver{}
	for rows.Next() {
		var d domain.Driver
		if err := scanDriver(rows, &d); err != nil {
			r.log.Errorf("Failed to scan driver row: %v", err)
			return nil, fmt.Errorf("error scanning driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during drivers iteration: %v", err)
		return nil, fmt.Errorf("error iterating drivers: %w", err)
	}

	r.log.Infof("Driver search returned %d results", len(drivers))
	return drivers, nil
}

func (r *postgresDriverRepository) UpdateDriver(ctx context.Context, id int, updates map[string]interface{}) (*domain.Driver, error) {
	if len(updates) == 0 {
		return r.GetDriverByID(ctx, id)
	}

	setClauses := []string{}
	args := []interface{}{}
	argCounter := 1

	for key, value := range updates {
		column := ""
		switch key {
		case "name":
			column = "name"
		case "email":
			column = "email"
		case "phone":
			column = "phone"
		case "vehicle_type":
			column = "vehicle_type"
		case "capacity":
			column = "capacity"
		case "district":
			column = "district"
		case "status":
			column = "status"
		case "rating":
			column = "rating"
		default:
			r.log.Warnf("Repository: Ignoring unknown driver update field '%s' for driver %d", key, id)
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argCounter))
		args = append(args, value)
		argCounter++
	}

	if len(setClauses) == 0 {
		return r.GetDriverByID(ctx, id)
	}

	query := fmt.Sprintf(`
        UPDATE drivers
        SET %s, updated_at = NOW()
        WHERE id = $%d AND is_deleted = FALSE
        RETURNING `+driverColumns, strings.Join(setClauses, ", "), argCounter)
	args = append(args, id)

	driver := &domain.Driver{}
	err := scanDriver(r.db.QueryRowContext(ctx, query, args...), driver)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Driver with ID %d not found for update", id)
			return nil, fmt.Errorf("%w: driver with id %d", domain.ErrNotFound, id)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Check constraint violation updating driver %d: %s", id, pqErr.Message)
			return nil, fmt.Errorf("%w: driver data constraint violation: %s", domain.ErrValidation, pqErr.Message)
		}
		r.log.Errorf("Failed to update driver %d: %v", id, err)
		return nil, fmt.Errorf("could not update driver: %w", err)
	}

	r.log.Infof("Driver %d updated (%d fields)", id, len(setClauses))
	return driver, nil
}

func (r *postgresDriverRepository) SetAvailability(ctx context.Context, id int, availability domain.DriverAvailability) (*domain.Driver, error) {
	query := `
        UPDATE drivers
        SET availability = $1, updated_at = NOW()
        WHERE id = $2 AND is_deleted = FALSE
        RETURNING ` + driverColumns

	driver := &domain.Driver{}
	err := scanDriver(r.db.QueryRowContext(ctx, query, availability, id), driver)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Driver with ID %d not found for availability update", id)
			return nil, fmt.Errorf("%w: driver with id %d", domain.ErrNotFound, id)
		}
		r.log.Errorf("Failed to set availability for driver %d: %v", id, err)
		return nil, fmt.Errorf("could not update driver availability: %w", err)
	}

	r.log.Infof("Driver %d availability set to '%s'", id, availability)
	return driver, nil
}

func (r *postgresDriverRepository) AssignDelivery(ctx context.Context, driverID, deliveryID int) error {
	query := `
        UPDATE drivers
        SET availability = $1,
            current_delivery_id = $2,
            total_deliveries = total_deliveries + 1,
            updated_at = NOW()
        WHERE id = $3 AND is_deleted = FALSE
    `
	result, err := r.db.ExecContext(ctx, query, domain.DriverBusy, deliveryID, driverID)
	if err != nil {
		r.log.Errorf("Failed to assign delivery %d to driver %d: %v", deliveryID, driverID, err)
		return fmt.Errorf("could not assign delivery: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not verify driver assignment: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Driver with ID %d not found for assignment", driverID)
		return fmt.Errorf("%w: driver with id %d", domain.ErrNotFound, driverID)
	}
	r.log.Infof("Delivery %d assigned to driver %d", deliveryID, driverID)
	return nil
}

func (r *postgresDriverRepository) CompleteAssignment(ctx context.Context, driverID int) error {
	query := `
        UPDATE drivers
        SET availability = $1,
            current_delivery_id = NULL,
            completed_deliveries = completed_deliveries + 1,
            updated_at = NOW()
        WHERE id = $2 AND is_deleted = FALSE
    `
	result, err := r.db.ExecContext(ctx, query, domain.DriverAvailable, driverID)
	if err != nil {
		r.log.Errorf("Failed to complete assignment for driver %d: %v", driverID, err)
		return fmt.Errorf("could not complete driver assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not verify assignment completion: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Driver with ID %d not found for assignment completion", driverID)
		return fmt.Errorf("%w: driver with id %d", domain.ErrNotFound, driverID)
	}
	r.log.Infof("Driver %d assignment completed", driverID)
	return nil
}

func (r *postgresDriverRepository) ReleaseAssignment(ctx context.Context, driverID int) error {
	query := `
        UPDATE drivers
        SET availability = $1,
            current_delivery_id = NULL,
            updated_at = NOW()
        WHERE id = $2 AND is_deleted = FALSE
    `
	result, err := r.db.ExecContext(ctx, query, domain.DriverAvailable, driverID)
	if err != nil {
		r.log.Errorf("Failed to release assignment for driver %d: %v", driverID, err)
		return fmt.Errorf("could not release driver assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not verify assignment release: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Driver with ID %d not found for assignment release", driverID)
		return fmt.Errorf("%w: driver with id %d", domain.ErrNotFound, driverID)
	}
	r.log.Infof("Driver %d assignment released", driverID)
	return nil
}

func (r *postgresDriverRepository) SoftDeleteDriver(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE drivers SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		r.log.Errorf("Failed to soft delete driver %d: %v", id, err)
		return fmt.Errorf("could not delete driver: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not verify driver deletion: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Driver with ID %d not found for deletion", id)
		return fmt.Errorf("%w: driver with id %d", domain.ErrNotFound, id)
	}
	r.log.Infof("Driver %d soft deleted", id)
	return nil
}
