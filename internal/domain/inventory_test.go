package domain

import (
	"encoding/json"
	"testing"
)

func TestProductRef_UnmarshalBareID(t *testing.T) {
	var ref ProductRef
	if err := json.Unmarshal([]byte(`42`), &ref); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != 42 {
		t.Errorf("expected ID 42, got %d", ref.ID)
	}
}

func TestProductRef_UnmarshalObject(t *testing.T) {
	var ref ProductRef
	if err := json.Unmarshal([]byte(`{"id": 7, "name": "Rice 5kg"}`), &ref); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != 7 {
		t.Errorf("expected ID 7, got %d", ref.ID)
	}
	if ref.Name != "Rice 5kg" {
		t.Errorf("expected name 'Rice 5kg', got '%s'", ref.Name)
	}
}

func TestProductRef_UnmarshalRejectsMissingID(t *testing.T) {
	var ref ProductRef
	if err := json.Unmarshal([]byte(`{"name": "Rice 5kg"}`), &ref); err == nil {
		t.Error("expected error for object without id")
	}
}

func TestProductRef_UnmarshalRejectsGarbage(t *testing.T) {
	var ref ProductRef
	if err := json.Unmarshal([]byte(`"rice"`), &ref); err == nil {
		t.Error("expected error for string reference")
	}
}

func TestProductRef_MarshalEmitsBareID(t *testing.T) {
	data, err := json.Marshal(ProductRef{ID: 9, Name: "ignored"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "9" {
		t.Errorf("expected '9', got '%s'", data)
	}
}

func TestIsValidMovementType(t *testing.T) {
	valid := []MovementType{MovementSale, MovementRestock, MovementExpiry, MovementLowStockRemove, MovementOutOfStockRemove}
	for _, mt := range valid {
		if !IsValidMovementType(mt) {
			t.Errorf("expected '%s' to be valid", mt)
		}
	}
	if IsValidMovementType(MovementType("shrinkage")) {
		t.Error("expected 'shrinkage' to be invalid")
	}
}
