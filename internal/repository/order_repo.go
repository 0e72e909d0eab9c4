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

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Rolling back transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Failed to rollback transaction: %v", rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				r.log.Errorf("Failed to commit transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	orderQuery := `
        INSERT INTO orders (customer_id, status, total_amount)
        VALUES ($1, $2, $3)
        RETURNING id, status, is_deleted, created_at, updated_at
    `
	err = tx.QueryRowContext(ctx, orderQuery, order.CustomerID, order.Status, order.TotalAmount).Scan(
		&order.ID,
		&order.Status,
		&order.IsDeleted,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Duplicate pending order for customer %d", order.CustomerID)
			err = fmt.Errorf("%w: customer %d already has a pending order", domain.ErrConflict, order.CustomerID)
			return nil, err
		}
		r.log.Errorf("Failed to insert order for customer %d: %v", order.CustomerID, err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price)
        VALUES ($1, $2, $3, $4, $5)
    `
	stmt, err := tx.PrepareContext(ctx, itemQuery)
	if err != nil {
		r.log.Errorf("Failed to prepare order item statement: %v", err)
		return nil, fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Items {
		item := &order.Items[i]
		_, err = stmt.ExecContext(ctx, order.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice)
		if err != nil {
			r.log.Errorf("Failed to insert order item (product_id: %d, quantity: %d) for order %d: %v", item.ProductID, item.Quantity, order.ID, err)
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
				err = fmt.Errorf("%w: invalid item data (product_id: %d): %s", domain.ErrValidation, item.ProductID, pqErr.Message)
				return nil, err
			}
			return nil, fmt.Errorf("could not create order item (product_id: %d): %w", item.ProductID, err)
		}
	}

	r.log.Infof("Order %d created with %d items for customer %d", order.ID, len(order.Items), order.CustomerID)
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id int) (*domain.Order, error) {
	order := &domain.Order{}
	orderQuery := `
        SELECT id, customer_id, status, total_amount, is_deleted, created_at, updated_at
        FROM orders
        WHERE id = $1 AND is_deleted = FALSE
    `
	err := r.db.QueryRowContext(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.Status,
		&order.TotalAmount,
		&order.IsDeleted,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order with ID %d not found", id)
			return nil, fmt.Errorf("%w: order with id %d", domain.ErrNotFound, id)
		}
		r.log.Errorf("Failed to get order by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *postgresOrderRepository) GetPendingOrderByCustomer(ctx context.Context, customerID int) (*domain.Order, error) {
	order := &domain.Order{}
	query := `
        SELECT id, customer_id, status, total_amount, is_deleted, created_at, updated_at
        FROM orders
        WHERE customer_id = $1 AND status = $2 AND is_deleted = FALSE
    `
	err := r.db.QueryRowContext(ctx, query, customerID, domain.OrderStatusPending).Scan(
		&order.ID,
		&order.CustomerID,
		&order.Status,
		&order.TotalAmount,
		&order.IsDeleted,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Debugf("No pending order for customer %d", customerID)
			return nil, fmt.Errorf("%w: pending order for customer %d", domain.ErrNotFound, customerID)
		}
		r.log.Errorf("Failed to get pending order for customer %d: %v", customerID, err)
		return nil, fmt.Errorf("could not retrieve pending order: %w", err)
	}

	items, err := r.getOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *postgresOrderRepository) getOrderItems(ctx context.Context, orderID int) ([]domain.OrderItem, error) {
	itemsQuery := `
        SELECT product_id, product_name, quantity, unit_price
        FROM order_items
        WHERE order_id = $1
        ORDER BY id
    `
	rows, err := r.db.QueryContext(ctx, itemsQuery, orderID)
	if err != nil {
		r.log.Errorf("Failed to query order items for order ID %d: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			r.log.Errorf("Failed to scan order item row for order ID %d: %v", orderID, err)
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during order items iteration for order ID %d: %v", orderID, err)
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND is_deleted = FALSE
        RETURNING id, customer_id, status, total_amount, is_deleted, created_at, updated_at
    `
	updatedOrder := &domain.Order{}

	err := r.db.QueryRowContext(ctx, query, status, id).Scan(
		&updatedOrder.ID,
		&updatedOrder.CustomerID,
		&updatedOrder.Status,
		&updatedOrder.TotalAmount,
		&updatedOrder.IsDeleted,
		&updatedOrder.CreatedAt,
		&updatedOrder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order with ID %d not found for status update", id)
			return nil, fmt.Errorf("%w: order with id %d", domain.ErrNotFound, id)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Invalid status value '%s' for order ID %d: %v", status, id, err)
			return nil, fmt.Errorf("%w: invalid order status '%s'", domain.ErrValidation, status)
		}
		r.log.Errorf("Failed to update status for order ID %d: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order status updated, but failed to retrieve items: %w", err)
	}
	updatedOrder.Items = items

	r.log.Infof("Order %d status updated to '%s'", updatedOrder.ID, updatedOrder.Status)
	return updatedOrder, nil
}

func (r *postgresOrderRepository) ReplaceItems(ctx context.Context, orderID int, items []domain.OrderItem, total float64) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin transaction for item replacement: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("ReplaceItems: Failed to rollback transaction: %v (original error: %v)", rbErr, err)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				err = fmt.Errorf("failed to commit item replacement transaction: %w", cErr)
				r.log.Errorf("ReplaceItems: %v", err)
			}
		}
	}()

	updatedOrder := &domain.Order{}
	updateQuery := `
        UPDATE orders
        SET total_amount = $1, updated_at = NOW()
        WHERE id = $2 AND is_deleted = FALSE
        RETURNING id, customer_id, status, total_amount, is_deleted, created_at, updated_at
    `
	err = tx.QueryRowContext(ctx, updateQuery, total, orderID).Scan(
		&updatedOrder.ID,
		&updatedOrder.CustomerID,
		&updatedOrder.Status,
		&updatedOrder.TotalAmount,
		&updatedOrder.IsDeleted,
		&updatedOrder.CreatedAt,
		&updatedOrder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order with ID %d not found for item replacement", orderID)
			err = fmt.Errorf("%w: order with id %d", domain.ErrNotFound, orderID)
			return nil, err
		}
		r.log.Errorf("Failed to update order %d during item replacement: %v", orderID, err)
		return nil, fmt.Errorf("could not update order total: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		r.log.Errorf("Failed to clear items for order %d: %v", orderID, err)
		return nil, fmt.Errorf("could not clear order items: %w", err)
	}

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price)
        VALUES ($1, $2, $3, $4, $5)
    `
	for i := range items {
		item := &items[i]
		_, err = tx.ExecContext(ctx, itemQuery, orderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice)
		if err != nil {
			r.log.Errorf("Failed to insert replacement item (product_id: %d) for order %d: %v", item.ProductID, orderID, err)
			return nil, fmt.Errorf("could not insert order item (product_id: %d): %w", item.ProductID, err)
		}
	}

	updatedOrder.Items = items
	r.log.Infof("Order %d items replaced (%d items, total %.2f)", orderID, len(items), total)
	return updatedOrder, nil
}

func (r *postgresOrderRepository) ListOrdersByCustomer(ctx context.Context, customerID, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	ordersQuery := `
        SELECT id, customer_id, status, total_amount, is_deleted, created_at, updated_at
        FROM orders
        WHERE customer_id = $1 AND is_deleted = FALSE
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.QueryContext(ctx, ordersQuery, customerID, limit, offset)
	if err != nil {
		r.log.Errorf("Failed to list orders for customer ID %d: %v", customerID, err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	orderIDs := []int{}

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.Status,
			&order.TotalAmount,
			&order.IsDeleted,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan order row for customer ID %d: %v", customerID, err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during orders iteration for customer ID %d: %v", customerID, err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	itemsQuery := `
        SELECT order_id, product_id, product_name, quantity, unit_price
        FROM order_items
        WHERE order_id = ANY($1::int[])
        ORDER BY order_id, id
    `
	itemRows, err := r.db.QueryContext(ctx, itemsQuery, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Failed to query items for multiple orders (%v): %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order items for list: %w", err)
	}
	defer itemRows.Close()

	itemsMap := make(map[int][]domain.OrderItem)
	for itemRows.Next() {
		var item domain.OrderItem
		var orderID int
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			r.log.Errorf("Failed to scan order item row during multi-order fetch: %v", err)
			return nil, fmt.Errorf("error scanning order item data for list: %w", err)
		}
		itemsMap[orderID] = append(itemsMap[orderID], item)
	}
	if err = itemRows.Err(); err != nil {
		r.log.Errorf("Error during multi-order items iteration: %v", err)
		return nil, fmt.Errorf("error iterating order items for list: %w", err)
	}

	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderItem{}
		}
	}

	r.log.Infof("Retrieved %d orders for customer ID %d (limit %d, offset %d)", len(orders), customerID, limit, offset)
	return orders, nil
}

func (r *postgresOrderRepository) SoftDeleteOrder(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE orders SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		r.log.Errorf("Failed to soft delete order %d: %v", id, err)
		return fmt.Errorf("could not delete order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not verify order deletion: %w", err)
	}
	if affected == 0 {
		r.log.Warnf("Order with ID %d not found for deletion", id)
		return fmt.Errorf("%w: order with id %d", domain.ErrNotFound, id)
	}
	r.log.Infof("Order %d soft deleted", id)
	return nil
}
