package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fitcoach/coaching-platform/internal/core/domain"
)

func newTestCache(t *testing.T) (*RoleCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRoleCache(client), mr
}

func TestRoleCache_SetGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "m1"); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	if err := cache.Set(ctx, "m1", domain.RoleTrainer); err != nil {
		t.Fatalf("Set: %v", err)
	}
	role, ok, err := cache.Get(ctx, "m1")
	if err != nil || !ok || role != domain.RoleTrainer {
		t.Fatalf("Get after Set: role=%s ok=%v err=%v", role, ok, err)
	}
}

func TestRoleCache_Invalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "m1", domain.RoleClient); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cache.Invalidate(ctx, "m1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, "m1"); ok {
		t.Fatal("entry survived invalidation")
	}
}

func TestRoleCache_EntryExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "m1", domain.RoleClient); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(roleCacheTTL + 1)
	if _, ok, _ := cache.Get(ctx, "m1"); ok {
		t.Fatal("entry survived TTL")
	}
}

func TestRoleCache_CorruptedValueIsMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if err := mr.Set("role:m1", "superuser"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	role, ok, err := cache.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || role != "" {
		t.Fatalf("unknown role value must read as a miss: role=%s ok=%v", role, ok)
	}
}

func TestRoleCache_ServerDownReturnsError(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	if _, _, err := cache.Get(ctx, "m1"); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
}
