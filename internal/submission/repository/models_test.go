package repository

import (
	"testing"

	"leadrouting_backend/internal/category"

	"github.com/google/uuid"
)

func TestIdempotencyKey(t *testing.T) {
	partnerID := uuid.MustParse("3f1a3c86-9f3d-4a86-9a3c-1d2e4f5a6b7c")

	got := IdempotencyKey("rpt-42", category.Solar, partnerID)
	want := "rpt-42:solar:3f1a3c86-9f3d-4a86-9a3c-1d2e4f5a6b7c"
	if got != want {
		t.Errorf("IdempotencyKey = %q, want %q", got, want)
	}

	// The same triple always derives the same key; a different partner does not.
	if got != IdempotencyKey("rpt-42", category.Solar, partnerID) {
		t.Error("key derivation should be deterministic")
	}
	if got == IdempotencyKey("rpt-42", category.Solar, uuid.New()) {
		t.Error("different partners must derive different keys")
	}
}
