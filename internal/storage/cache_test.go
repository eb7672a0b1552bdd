package storage

import (
	"context"
	"path/filepath"
	"testing"

	"cobros/internal/core"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(filepath.Join(t.TempDir(), "cobros.db"))
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheUsersRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	got, err := c.LoadUsers(ctx)
	if err != nil {
		t.Fatalf("LoadUsers on empty cache: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil before first save, got %v", got)
	}

	users := []core.User{
		{ID: "u1", Name: "Juan Pérez", Kind: core.Plain},
		{ID: "u2", Name: "María González", Kind: core.Vouchered, Phone: "3001234567"},
	}
	if err := c.SaveUsers(ctx, users); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}

	got, err = c.LoadUsers(ctx)
	if err != nil {
		t.Fatalf("LoadUsers: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Juan Pérez" || got[1].Phone != "3001234567" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCacheSaveReplacesWholeCollection(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	charges := []core.Charge{
		{ID: "c1", UserID: "u1", Amount: 100, SlipNumber: "P-1", SlipDate: "2024-03-15"},
		{ID: "c2", UserID: "u1", Amount: 200, SlipNumber: "P-2", SlipDate: "2024-03-16"},
	}
	if err := c.SaveCharges(ctx, charges); err != nil {
		t.Fatalf("SaveCharges: %v", err)
	}
	if err := c.SaveCharges(ctx, charges[:1]); err != nil {
		t.Fatalf("SaveCharges replace: %v", err)
	}

	got, err := c.LoadCharges(ctx)
	if err != nil {
		t.Fatalf("LoadCharges: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("expected only c1, got %+v", got)
	}
}

func TestCacheEmptyCollectionIsNotMissing(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.SaveCharges(ctx, nil); err != nil {
		t.Fatalf("SaveCharges(nil): %v", err)
	}
	got, err := c.LoadCharges(ctx)
	if err != nil {
		t.Fatalf("LoadCharges: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
