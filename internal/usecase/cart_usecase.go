package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/sirupsen/logrus"
)

// ItemInput is one requested line item. ProductRef tolerates both a bare id
// and a populated product object in the request body.
type ItemInput struct {
	ProductRef  domain.ProductRef `json:"product_ref"`
	ProductName string            `json:"product_name"`
	Quantity    int               `json:"quantity"`
	UnitPrice   float64           `json:"unit_price"`
}

type CartUseCase interface {
	GetOrCreateCart(ctx context.Context, customerID int) (*domain.Order, error)
	AddItem(ctx context.Context, customerID int, input ItemInput) (*domain.Order, error)
	UpdateItemQuantity(ctx context.Context, orderID, productID, quantity int) (*domain.Order, error)
	RemoveItem(ctx context.Context, orderID, productID int) (*domain.Order, error)
	ClearCart(ctx context.Context, customerID int) (*domain.Order, error)
	CreateOrder(ctx context.Context, customerID int, items []ItemInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID, limit, offset int) ([]domain.Order, error)
	SoftDeleteOrder(ctx context.Context, id int) error
}

type cartUseCase struct {
	orderRepo domain.OrderRepository
	log       *logrus.Logger
}

func NewCartUseCase(repo domain.OrderRepository, logger *logrus.Logger) CartUseCase {
	return &cartUseCase{
		orderRepo: repo,
		log:       logger,
	}
}

func validateItemInput(input ItemInput) error {
	if input.ProductRef.ID <= 0 {
		return fmt.Errorf("%w: invalid product reference", domain.ErrValidation)
	}
	if input.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	if input.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price cannot be negative", domain.ErrValidation)
	}
	return nil
}

// GetOrCreateCart returns the customer's single pending order, creating an
// empty one when none exists. A concurrent create for the same customer loses
// against the partial unique index and falls back to re-fetching the winner.
func (uc *cartUseCase) GetOrCreateCart(ctx context.Context, customerID int) (*domain.Order, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: invalid customer ID", domain.ErrValidation)
	}

	cart, err := uc.orderRepo.GetPendingOrderByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		uc.log.Errorf("Use Case: Failed to look up cart for customer %d: %v", customerID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: No pending order for customer %d, creating empty cart", customerID)
	newCart := &domain.Order{
		CustomerID:  customerID,
		Items:       []domain.OrderItem{},
		TotalAmount: 0,
		Status:      domain.OrderStatusPending,
	}
	created, err := uc.orderRepo.CreateOrder(ctx, newCart)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, domain.ErrConflict) {
		uc.log.Warnf("Use Case: Lost cart creation race for customer %d, re-fetching", customerID)
		return uc.orderRepo.GetPendingOrderByCustomer(ctx, customerID)
	}
	uc.log.Errorf("Use Case: Failed to create cart for customer %d: %v", customerID, err)
	return nil, err
}

func (uc *cartUseCase) AddItem(ctx context.Context, customerID int, input ItemInput) (*domain.Order, error) {
	if err := validateItemInput(input); err != nil {
		uc.log.Warnf("Use Case: Rejected cart item for customer %d: %v", customerID, err)
		return nil, err
	}

	cart, err := uc.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == input.ProductRef.ID {
			cart.Items[i].Quantity += input.Quantity
			found = true
			break
		}
	}
	if !found {
		name := input.ProductName
		if name == "" {
			name = input.ProductRef.Name
		}
		cart.Items = append(cart.Items, domain.OrderItem{
			ProductID:   input.ProductRef.ID,
			ProductName: name,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
		})
	}
	cart.RecomputeTotal()

	updated, err := uc.orderRepo.ReplaceItems(ctx, cart.ID, cart.Items, cart.TotalAmount)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist cart items for order %d: %v", cart.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Item (product %d, qty %d) added to cart %d; total now %.2f",
		input.ProductRef.ID, input.Quantity, updated.ID, updated.TotalAmount)
	return updated, nil
}

func (uc *cartUseCase) UpdateItemQuantity(ctx context.Context, orderID, productID, quantity int) (*domain.Order, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}

	order, err := uc.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range order.Items {
		if order.Items[i].ProductID == productID {
			order.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		uc.log.Warnf("Use Case: Product %d not present in order %d for quantity update", productID, orderID)
		return nil, fmt.Errorf("%w: product %d not in order %d", domain.ErrNotFound, productID, orderID)
	}
	order.RecomputeTotal()

	updated, err := uc.orderRepo.ReplaceItems(ctx, order.ID, order.Items, order.TotalAmount)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist quantity update for order %d: %v", orderID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product %d in order %d set to quantity %d; total now %.2f", productID, orderID, quantity, updated.TotalAmount)
	return updated, nil
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, orderID, productID int) (*domain.Order, error) {
	order, err := uc.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	remaining := make([]domain.OrderItem, 0, len(order.Items))
	found := false
	for _, item := range order.Items {
		if item.ProductID == productID {
			found = true
			continue
		}
		remaining = append(remaining, item)
	}
	if !found {
		uc.log.Warnf("Use Case: Product %d not present in order %d for removal", productID, orderID)
		return nil, fmt.Errorf("%w: product %d not in order %d", domain.ErrNotFound, productID, orderID)
	}
	order.Items = remaining
	order.RecomputeTotal()

	updated, err := uc.orderRepo.ReplaceItems(ctx, order.ID, order.Items, order.TotalAmount)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist item removal for order %d: %v", orderID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product %d removed from order %d; total now %.2f", productID, orderID, updated.TotalAmount)
	return updated, nil
}

func (uc *cartUseCase) ClearCart(ctx context.Context, customerID int) (*domain.Order, error) {
	cart, err := uc.orderRepo.GetPendingOrderByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	updated, err := uc.orderRepo.ReplaceItems(ctx, cart.ID, []domain.OrderItem{}, 0)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to clear cart %d for customer %d: %v", cart.ID, customerID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Cart %d cleared for customer %d", cart.ID, customerID)
	return updated, nil
}

func (uc *cartUseCase) CreateOrder(ctx context.Context, customerID int, items []ItemInput) (*domain.Order, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: invalid customer ID", domain.ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", domain.ErrValidation)
	}

	order := &domain.Order{
		CustomerID: customerID,
		Status:     domain.OrderStatusPending,
		Items:      make([]domain.OrderItem, 0, len(items)),
	}
	for i, input := range items {
		if err := validateItemInput(input); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		name := input.ProductName
		if name == "" {
			name = input.ProductRef.Name
		}
		merged := false
		for j := range order.Items {
			if order.Items[j].ProductID == input.ProductRef.ID {
				order.Items[j].Quantity += input.Quantity
				merged = true
				break
			}
		}
		if !merged {
			order.Items = append(order.Items, domain.OrderItem{
				ProductID:   input.ProductRef.ID,
				ProductName: name,
				Quantity:    input.Quantity,
				UnitPrice:   input.UnitPrice,
			})
		}
	}
	order.RecomputeTotal()

	created, err := uc.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to create order for customer %d: %v", customerID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %d created for customer %d with %d items (total %.2f)",
		created.ID, customerID, len(created.Items), created.TotalAmount)
	return created, nil
}

func (uc *cartUseCase) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid order ID", domain.ErrValidation)
	}
	return uc.orderRepo.GetOrderByID(ctx, id)
}

func (uc *cartUseCase) ListOrdersByCustomer(ctx context.Context, customerID, limit, offset int) ([]domain.Order, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: invalid customer ID", domain.ErrValidation)
	}
	return uc.orderRepo.ListOrdersByCustomer(ctx, customerID, limit, offset)
}

func (uc *cartUseCase) SoftDeleteOrder(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid order ID", domain.ErrValidation)
	}
	return uc.orderRepo.SoftDeleteOrder(ctx, id)
}
