package usecase

import (
	"context"

	"github.com/HeshalD/CeylonMart-sub001/internal/clients"
	"github.com/HeshalD/CeylonMart-sub001/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id int) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) GetPendingOrderByCustomer(ctx context.Context, customerID int) (*domain.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByCustomer(ctx context.Context, customerID, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ReplaceItems(ctx context.Context, orderID int, items []domain.OrderItem, total float64) (*domain.Order, error) {
	args := m.Called(ctx, orderID, items, total)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) SoftDeleteOrder(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetPaymentByID(ctx context.Context, id int) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByCustomer(ctx context.Context, customerID, limit, offset int) ([]domain.Payment, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) TransitionStatus(ctx context.Context, id int, from, to domain.PaymentStatus) (*domain.Payment, bool, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Payment), args.Bool(1), args.Error(2)
}

func (m *MockPaymentRepository) SoftDeletePayment(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockInventoryRepository) AdjustStock(ctx context.Context, productID, delta int, enforceFloor bool, movement *domain.StockHistory) (int, error) {
	args := m.Called(ctx, productID, delta, enforceFloor, movement)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryRepository) SaleRecorded(ctx context.Context, paymentID, productID int) (bool, error) {
	args := m.Called(ctx, paymentID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryRepository) ListStockHistory(ctx context.Context, productID, limit, offset int) ([]domain.StockHistory, error) {
	args := m.Called(ctx, productID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockHistory), args.Error(1)
}

func (m *MockInventoryRepository) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) CreateDelivery(ctx context.Context, delivery *domain.Delivery) (*domain.Delivery, error) {
	args := m.Called(ctx, delivery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetDeliveryByID(ctx context.Context, id int) (*domain.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) ListDeliveries(ctx context.Context, status *domain.DeliveryStatus, limit, offset int) ([]domain.Delivery, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) SaveTransition(ctx context.Context, delivery *domain.Delivery, entry domain.StatusHistoryEntry) (*domain.Delivery, error) {
	args := m.Called(ctx, delivery, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) SoftDeleteDelivery(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDriverRepository struct {
	mock.Mock
}

func (m *MockDriverRepository) CreateDriver(ctx context.Context, driver *domain.Driver) (*domain.Driver, error) {
	args := m.Called(ctx, driver)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetDriverByID(ctx context.Context, id int) (*domain.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) SearchDrivers(ctx context.Context, filters domain.DriverFilters) ([]domain.Driver, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) UpdateDriver(ctx context.Context, id int, updates map[string]interface{}) (*domain.Driver, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) SetAvailability(ctx context.Context, id int, availability domain.DriverAvailability) (*domain.Driver, error) {
	args := m.Called(ctx, id, availability)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) AssignDelivery(ctx context.Context, driverID, deliveryID int) error {
	args := m.Called(ctx, driverID, deliveryID)
	return args.Error(0)
}

func (m *MockDriverRepository) CompleteAssignment(ctx context.Context, driverID int) error {
	args := m.Called(ctx, driverID)
	return args.Error(0)
}

func (m *MockDriverRepository) ReleaseAssignment(ctx context.Context, driverID int) error {
	args := m.Called(ctx, driverID)
	return args.Error(0)
}

func (m *MockDriverRepository) SoftDeleteDriver(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendReceipt(ctx context.Context, receipt clients.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

type MockInventoryUseCase struct {
	mock.Mock
}

func (m *MockInventoryUseCase) ApplySale(ctx context.Context, paymentID int, items []domain.OrderItem) ([]domain.StockAdjustment, error) {
	args := m.Called(ctx, paymentID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockAdjustment), args.Error(1)
}

func (m *MockInventoryUseCase) Restock(ctx context.Context, productID, quantity int, reason string) (*domain.StockHistory, error) {
	args := m.Called(ctx, productID, quantity, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockHistory), args.Error(1)
}

func (m *MockInventoryUseCase) RemoveStock(ctx context.Context, productID, quantity int, movementType domain.MovementType, reason string) (*domain.StockHistory, error) {
	args := m.Called(ctx, productID, quantity, movementType, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockHistory), args.Error(1)
}

func (m *MockInventoryUseCase) ListStockHistory(ctx context.Context, productID, limit, offset int) ([]domain.StockHistory, error) {
	args := m.Called(ctx, productID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockHistory), args.Error(1)
}

func (m *MockInventoryUseCase) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}
