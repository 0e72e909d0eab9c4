package domain

import "testing"

func TestRecomputeTotal(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{ProductID: 1, Quantity: 2, UnitPrice: 100},
			{ProductID: 2, Quantity: 1, UnitPrice: 50},
		},
	}
	order.RecomputeTotal()
	if order.TotalAmount != 250 {
		t.Errorf("expected total 250, got %.2f", order.TotalAmount)
	}
}

func TestRecomputeTotal_EmptyOrder(t *testing.T) {
	order := Order{TotalAmount: 99}
	order.RecomputeTotal()
	if order.TotalAmount != 0 {
		t.Errorf("expected total 0 for empty order, got %.2f", order.TotalAmount)
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	valid := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}
	for _, status := range valid {
		if !IsValidOrderStatus(status) {
			t.Errorf("expected '%s' to be valid", status)
		}
	}
	if IsValidOrderStatus(OrderStatus("archived")) {
		t.Error("expected 'archived' to be invalid")
	}
}
