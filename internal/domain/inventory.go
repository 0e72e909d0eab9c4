package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientStock is returned by stock decrements when the floor is
// enforced and the product cannot cover the requested quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

type Product struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	Code              string  `json:"code"`
	Category          string  `json:"category"`
	Price             float64 `json:"price"`
	CurrentStock      int     `json:"current_stock"`
	MinimumStockLevel int     `json:"minimum_stock_level"`
}

type MovementType string

const (
	MovementSale             MovementType = "sale"
	MovementRestock          MovementType = "restock"
	MovementExpiry           MovementType = "expiry"
	MovementLowStockRemove   MovementType = "lowstock-remove"
	MovementOutOfStockRemove MovementType = "outofstock-remove"
)

func IsValidMovementType(t MovementType) bool {
	switch t {
	case MovementSale, MovementRestock, MovementExpiry, MovementLowStockRemove, MovementOutOfStockRemove:
		return true
	default:
		return false
	}
}

// StockHistory is one append-only ledger row. PaymentID is set for sale
// movements and is the durable marker that a payment's decrement was applied.
type StockHistory struct {
	ID               string       `json:"id"`
	ProductID        int          `json:"product_id"`
	PaymentID        *int         `json:"payment_id,omitempty"`
	ProductName      string       `json:"product_name"`
	ProductCode      string       `json:"product_code"`
	Category         string       `json:"category"`
	Type             MovementType `json:"type"`
	PreviousQuantity int          `json:"previous_quantity"`
	Quantity         int          `json:"quantity"`
	NewQuantity      int          `json:"new_quantity"`
	Reason           string       `json:"reason"`
	CreatedAt        time.Time    `json:"created_at"`
}

// StockAdjustment is the per-item outcome of a batch ledger operation.
// Failed items are reported here instead of aborting the batch.
type StockAdjustment struct {
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Applied   bool   `json:"applied"`
	NewStock  int    `json:"new_stock,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ProductRef normalizes the two reference shapes callers send: a bare numeric
// id, or a populated product object. Comparisons and lookups always use ID.
type ProductRef struct {
	ID   int
	Name string
}

func (r *ProductRef) UnmarshalJSON(data []byte) error {
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		return nil
	}
	var obj struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("product reference must be an id or a product object: %w", err)
	}
	if obj.ID == 0 {
		return errors.New("product reference object is missing an id")
	}
	r.ID = obj.ID
	r.Name = obj.Name
	return nil
}

func (r ProductRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

type InventoryRepository interface {
	GetProductByID(ctx context.Context, id int) (*Product, error)
	// AdjustStock applies an atomic counter delta (negative for removals) and
	// appends one history row in the same transaction. With enforceFloor set,
	// a decrement below zero fails with ErrInsufficientStock and writes
	// nothing. Returns the stock level after the update.
	AdjustStock(ctx context.Context, productID, delta int, enforceFloor bool, movement *StockHistory) (int, error)
	// SaleRecorded reports whether a sale history row already exists for the
	// payment/product pair.
	SaleRecorded(ctx context.Context, paymentID, productID int) (bool, error)
	ListStockHistory(ctx context.Context, productID, limit, offset int) ([]StockHistory, error)
	ListLowStock(ctx context.Context) ([]Product, error)
}
