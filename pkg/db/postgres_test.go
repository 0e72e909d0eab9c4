package db

import (
	"database/sql"
	"testing"
)

func TestConnect_RejectsEmptyURL(t *testing.T) {
	if _, err := Connect(""); err == nil {
		t.Error("expected error for empty database URL")
	}
}

func TestConfigurePool(t *testing.T) {
	// sql.Open does not dial, so pool settings can be checked offline.
	handle, err := sql.Open("postgres", "postgres://localhost:5432/unused?sslmode=disable")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer handle.Close()

	configurePool(handle)

	if got := handle.Stats().MaxOpenConnections; got != maxOpenConns {
		t.Errorf("expected %d max open connections, got %d", maxOpenConns, got)
	}
}
