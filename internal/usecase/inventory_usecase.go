package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/HeshalD/CeylonMart-sub001/pkg/metrics"
	"github.com/sirupsen/logrus"
)

type InventoryUseCase interface {
	// ApplySale decrements stock for each line item of a settled payment and
	// appends one sale ledger row per product. Per-item failures are reported
	// in the result slice, never aborting the batch. Items whose sale is
	// already recorded for this payment are skipped.
	ApplySale(ctx context.Context, paymentID int, items []domain.OrderItem) ([]domain.StockAdjustment, error)
	Restock(ctx context.Context, productID, quantity int, reason string) (*domain.StockHistory, error)
	RemoveStock(ctx context.Context, productID, quantity int, movementType domain.MovementType, reason string) (*domain.StockHistory, error)
	ListStockHistory(ctx context.Context, productID, limit, offset int) ([]domain.StockHistory, error)
	ListLowStock(ctx context.Context) ([]domain.Product, error)
}

type inventoryUseCase struct {
	invRepo            domain.InventoryRepository
	allowNegativeStock bool
	metrics            *metrics.Metrics
	log                *logrus.Logger
}

func NewInventoryUseCase(repo domain.InventoryRepository, allowNegativeStock bool, m *metrics.Metrics, logger *logrus.Logger) InventoryUseCase {
	return &inventoryUseCase{
		invRepo:            repo,
		allowNegativeStock: allowNegativeStock,
		metrics:            m,
		log:                logger,
	}
}

func (uc *inventoryUseCase) ApplySale(ctx context.Context, paymentID int, items []domain.OrderItem) ([]domain.StockAdjustment, error) {
	results := make([]domain.StockAdjustment, 0, len(items))

	for _, item := range items {
		result := domain.StockAdjustment{ProductID: item.ProductID, Quantity: item.Quantity}

		if item.ProductID <= 0 {
			uc.log.Warnf("Use Case: Skipping sale item with invalid product reference (payment %d)", paymentID)
			result.Error = "invalid product reference"
			results = append(results, result)
			continue
		}
		if item.Quantity <= 0 {
			uc.log.Warnf("Use Case: Skipping sale item for product %d with non-positive quantity %d (payment %d)", item.ProductID, item.Quantity, paymentID)
			result.Error = "quantity must be positive"
			results = append(results, result)
			continue
		}

		recorded, err := uc.invRepo.SaleRecorded(ctx, paymentID, item.ProductID)
		if err != nil {
			uc.log.Errorf("Use Case: Failed to check sale marker for payment %d, product %d: %v", paymentID, item.ProductID, err)
			result.Error = "could not verify sale record"
			results = append(results, result)
			continue
		}
		if recorded {
			uc.log.Infof("Use Case: Sale already recorded for payment %d, product %d; skipping decrement", paymentID, item.ProductID)
			uc.metrics.DecrementSkipped.Inc()
			result.Error = "sale already recorded for this payment"
			results = append(results, result)
			continue
		}

		product, err := uc.invRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			uc.log.Warnf("Use Case: Skipping sale item, product %d unavailable (payment %d): %v", item.ProductID, paymentID, err)
			result.Error = "product not found"
			results = append(results, result)
			continue
		}

		pid := paymentID
		movement := &domain.StockHistory{
			PaymentID:   &pid,
			ProductName: product.Name,
			ProductCode: product.Code,
			Category:    product.Category,
			Type:        domain.MovementSale,
			Quantity:    item.Quantity,
			Reason:      fmt.Sprintf("sale for payment %d", paymentID),
		}
		newStock, err := uc.invRepo.AdjustStock(ctx, item.ProductID, -item.Quantity, !uc.allowNegativeStock, movement)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				uc.log.Warnf("Use Case: Oversell rejected for product %d (payment %d, qty %d)", item.ProductID, paymentID, item.Quantity)
				result.Error = "insufficient stock"
			} else {
				uc.log.Errorf("Use Case: Failed to decrement stock for product %d (payment %d): %v", item.ProductID, paymentID, err)
				result.Error = "stock update failed"
			}
			results = append(results, result)
			continue
		}

		uc.metrics.StockMovements.WithLabelValues(string(domain.MovementSale)).Inc()
		result.Applied = true
		result.NewStock = newStock
		results = append(results, result)

		if newStock <= product.MinimumStockLevel {
			uc.log.Warnf("Use Case: Product %d (%s) at or below minimum stock level after sale: %d <= %d",
				product.ID, product.Name, newStock, product.MinimumStockLevel)
		}
	}

	applied := 0
	for _, r := range results {
		if r.Applied {
			applied++
		}
	}
	uc.log.Infof("Use Case: Sale for payment %d applied to %d/%d items", paymentID, applied, len(items))
	return results, nil
}

func (uc *inventoryUseCase) Restock(ctx context.Context, productID, quantity int, reason string) (*domain.StockHistory, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: invalid product ID", domain.ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: restock quantity must be positive", domain.ErrValidation)
	}

	product, err := uc.invRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	movement := &domain.StockHistory{
		ProductName: product.Name,
		ProductCode: product.Code,
		Category:    product.Category,
		Type:        domain.MovementRestock,
		Quantity:    quantity,
		Reason:      reason,
	}
	if _, err := uc.invRepo.AdjustStock(ctx, productID, quantity, false, movement); err != nil {
		uc.log.Errorf("Use Case: Failed to restock product %d by %d: %v", productID, quantity, err)
		return nil, err
	}

	uc.metrics.StockMovements.WithLabelValues(string(domain.MovementRestock)).Inc()
	uc.log.Infof("Use Case: Product %d restocked by %d (now %d)", productID, quantity, movement.NewQuantity)
	return movement, nil
}

// RemoveStock handles the manual removal movements: expiry, lowstock-remove
// and outofstock-remove. Removals always enforce the zero floor; physical
// stock cannot be removed below what exists.
func (uc *inventoryUseCase) RemoveStock(ctx context.Context, productID, quantity int, movementType domain.MovementType, reason string) (*domain.StockHistory, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: invalid product ID", domain.ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: removal quantity must be positive", domain.ErrValidation)
	}
	switch movementType {
	case domain.MovementExpiry, domain.MovementLowStockRemove, domain.MovementOutOfStockRemove:
	default:
		return nil, fmt.Errorf("%w: invalid removal movement type '%s'", domain.ErrValidation, movementType)
	}

	product, err := uc.invRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	movement := &domain.StockHistory{
		ProductName: product.Name,
		ProductCode: product.Code,
		Category:    product.Category,
		Type:        movementType,
		Quantity:    quantity,
		Reason:      reason,
	}
	if _, err := uc.invRepo.AdjustStock(ctx, productID, -quantity, true, movement); err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.log.Warnf("Use Case: Removal of %d rejected for product %d: only %d in stock", quantity, productID, product.CurrentStock)
			return nil, fmt.Errorf("%w: cannot remove %d units, only %d in stock", domain.ErrValidation, quantity, product.CurrentStock)
		}
		uc.log.Errorf("Use Case: Failed to remove %d units of product %d: %v", quantity, productID, err)
		return nil, err
	}

	uc.metrics.StockMovements.WithLabelValues(string(movementType)).Inc()
	uc.log.Infof("Use Case: Removed %d units of product %d (%s, now %d)", quantity, productID, movementType, movement.NewQuantity)
	return movement, nil
}

func (uc *inventoryUseCase) ListStockHistory(ctx context.Context, productID, limit, offset int) ([]domain.StockHistory, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: invalid product ID", domain.ErrValidation)
	}
	return uc.invRepo.ListStockHistory(ctx, productID, limit, offset)
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	return uc.invRepo.ListLowStock(ctx)
}
