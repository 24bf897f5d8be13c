package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryCache()
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "oauth:state", "1", time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, err := m.Get(ctx, "oauth:state"); err != nil || v != "1" {
		t.Fatalf("get = %q, %v", v, err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := m.Get(ctx, "oauth:state"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss after expiry, got %v", err)
	}
}

func TestMemoryCacheTakeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()
	_ = m.Set(ctx, "k", "v", 0)

	if v, err := m.Take(ctx, "k"); err != nil || v != "v" {
		t.Fatalf("take = %q, %v", v, err)
	}
	if _, err := m.Take(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("second take should miss, got %v", err)
	}
}

func TestMemoryCacheIncrWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryCache()
	m.now = func() time.Time { return now }

	for i := int64(1); i <= 3; i++ {
		n, err := m.IncrWindow(ctx, "rl:1.2.3.4", time.Minute)
		if err != nil || n != i {
			t.Fatalf("hit %d: n=%d err=%v", i, n, err)
		}
	}

	now = now.Add(61 * time.Second)
	if n, _ := m.IncrWindow(ctx, "rl:1.2.3.4", time.Minute); n != 1 {
		t.Fatalf("window should reset, got %d", n)
	}
}
