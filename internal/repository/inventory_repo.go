package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type postgresInventoryRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresInventoryRepository(db *sql.DB, logger *logrus.Logger) domain.InventoryRepository {
	return &postgresInventoryRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresInventoryRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	product := &domain.Product{}
	query := `
        SELECT id, name, code, category, price, current_stock, minimum_stock_level
        FROM products
        WHERE id = $1
    `
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Code,
		&product.Category,
		&product.Price,
		&product.CurrentStock,
		&product.MinimumStockLevel,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with ID %d not found", id)
			return nil, fmt.Errorf("%w: product with id %d", domain.ErrNotFound, id)
		}
		r.log.Errorf("Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve product: %w", err)
	}

	return product, nil
}

// AdjustStock runs the counter update and the history append in one
// transaction. The counter moves with a single relative UPDATE, never a
// read-modify-write pair, so concurrent adjustments for different orders
// cannot lose updates.
func (r *postgresInventoryRepository) AdjustStock(ctx context.Context, productID, delta int, enforceFloor bool, movement *domain.StockHistory) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin transaction for stock adjustment: %v", err)
		return 0, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("AdjustStock: Failed to rollback transaction: %v (original error: %v)", rbErr, err)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				err = fmt.Errorf("failed to commit stock adjustment transaction: %w", cErr)
				r.log.Errorf("AdjustStock: %v", err)
			}
		}
	}()

	updateQuery := `
        UPDATE products
        SET current_stock = current_stock + $1
        WHERE id = $2
    `
	if enforceFloor {
		updateQuery += ` AND current_stock + $1 >= 0`
	}
	updateQuery += ` RETURNING current_stock`

	var newStock int
	err = tx.QueryRowContext(ctx, updateQuery, delta, productID).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the product is missing or the floor blocked the update.
			var exists bool
			if checkErr := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); checkErr != nil {
				err = fmt.Errorf("could not verify product %d: %w", productID, checkErr)
				return 0, err
			}
			if !exists {
				r.log.Warnf("Product with ID %d not found for stock adjustment", productID)
				err = fmt.Errorf("%w: product with id %d", domain.ErrNotFound, productID)
				return 0, err
			}
			r.log.Warnf("Stock adjustment of %d rejected for product %d: would drop below zero", delta, productID)
			err = fmt.Errorf("%w: product %d cannot cover %d units", domain.ErrInsufficientStock, productID, -delta)
			return 0, err
		}
		r.log.Errorf("Failed to adjust stock for product %d by %d: %v", productID, delta, err)
		return 0, fmt.Errorf("could not adjust stock: %w", err)
	}

	movement.ID = uuid.New().String()
	movement.ProductID = productID
	movement.PreviousQuantity = newStock - delta
	movement.NewQuantity = newStock

	insertQuery := `
        INSERT INTO stock_history
            (id, product_id, payment_id, product_name, product_code, category,
             movement_type, previous_quantity, quantity, new_quantity, reason)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at
    `
	var paymentID sql.NullInt64
	if movement.PaymentID != nil {
		paymentID = sql.NullInt64{Int64: int64(*movement.PaymentID), Valid: true}
	}
	err = tx.QueryRowContext(ctx, insertQuery,
		movement.ID,
		movement.ProductID,
		paymentID,
		movement.ProductName,
		movement.ProductCode,
		movement.Category,
		movement.Type,
		movement.PreviousQuantity,
		movement.Quantity,
		movement.NewQuantity,
		movement.Reason,
	).Scan(&movement.CreatedAt)
	if err != nil {
		r.log.Errorf("Failed to insert stock history for product %d: %v", productID, err)
		return 0, fmt.Errorf("could not record stock movement: %w", err)
	}

	r.log.Infof("Stock for product %d adjusted by %d (now %d, movement: %s)", productID, delta, newStock, movement.Type)
	return newStock, nil
}

func (r *postgresInventoryRepository) SaleRecorded(ctx context.Context, paymentID, productID int) (bool, error) {
	query := `
        SELECT EXISTS(
            SELECT 1 FROM stock_history
            WHERE payment_id = $1 AND product_id = $2 AND movement_type = $3
        )
    `
	var exists bool
	err := r.db.QueryRowContext(ctx, query, paymentID, productID, domain.MovementSale).Scan(&exists)
	if err != nil {
		r.log.Errorf("Failed to check sale record for payment %d, product %d: %v", paymentID, productID, err)
		return false, fmt.Errorf("could not check sale record: %w", err)
	}
	return exists, nil
}

func (r *postgresInventoryRepository) ListStockHistory(ctx context.Context, productID, limit, offset int) ([]domain.StockHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT id, product_id, payment_id, product_name, product_code, category,
               movement_type, previous_quantity, quantity, new_quantity, reason, created_at
        FROM stock_history
        WHERE product_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.QueryContext(ctx, query, productID, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list stock history for product %d: %v", productID, err)
		return nil, fmt.Errorf("could not retrieve stock history: %w", err)
	}
	defer rows.Close()

	entries := []domain.StockHistory{}
	for rows.Next() {
		var entry domain.StockHistory
		var paymentID sql.NullInt64
		if err := rows.Scan(
			&entry.ID,
			&entry.ProductID,
			&paymentID,
			&entry.ProductName,
			&entry.ProductCode,
			&entry.Category,
			&entry.Type,
			&entry.PreviousQuantity,
			&entry.Quantity,
			&entry.NewQuantity,
			&entry.Reason,
			&entry.CreatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan stock history row for product %d: %v", productID, err)
			return nil, fmt.Errorf("error scanning stock history: %w", err)
		}
		if paymentID.Valid {
			pid := int(paymentID.Int64)
			entry.PaymentID = &pid
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during stock history iteration for product %d: %v", productID, err)
		return nil, fmt.Errorf("error iterating stock history: %w", err)
	}

	return entries, nil
}

func (r *postgresInventoryRepository) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	query := `
        SELECT id, name, code, category, price, current_stock, minimum_stock_level
        FROM products
        WHERE current_stock <= minimum_stock_level
        ORDER BY current_stock ASC
    `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Errorf("Failed to list low stock products: %v", err)
		return nil, fmt.Errorf("could not retrieve low stock products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Category, &p.Price, &p.CurrentStock, &p.MinimumStockLevel); err != nil {
			r.log.Errorf("Failed to scan low stock product row: %v", err)
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during low stock iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
