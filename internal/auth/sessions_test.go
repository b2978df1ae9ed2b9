package auth

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func redisStore(t *testing.T) (SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisSessionStore(rdb, time.Hour), mr
}

func TestRedisSessionLifecycle(t *testing.T) {
	store, _ := redisStore(t)
	ctx := context.Background()

	profile := Profile{ID: "google_1", Name: "Alice", Email: "a@example.com"}
	sid, err := store.Create(ctx, profile)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sid == "" {
		t.Fatalf("expected a session id")
	}

	got, err := store.Get(ctx, sid)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *got != profile {
		t.Fatalf("expected %+v, got %+v", profile, got)
	}

	if err := store.Destroy(ctx, sid); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := store.Get(ctx, sid); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession after destroy, got %v", err)
	}
}

func TestRedisSessionExpiry(t *testing.T) {
	store, mr := redisStore(t)
	ctx := context.Background()

	sid, err := store.Create(ctx, Profile{ID: "google_2"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	mr.FastForward(2 * time.Hour)
	if _, err := store.Get(ctx, sid); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession after expiry, got %v", err)
	}
}

func TestSessionGetUnknownOrEmpty(t *testing.T) {
	store, _ := redisStore(t)
	ctx := context.Background()
	if _, err := store.Get(ctx, "nope"); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := store.Get(ctx, ""); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession for empty sid, got %v", err)
	}
}

func TestMemorySessionLifecycle(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	profile := Profile{ID: "facebook_9", Name: "Bob"}
	sid, err := store.Create(ctx, profile)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := store.Get(ctx, sid)
	if err != nil || got.ID != "facebook_9" {
		t.Fatalf("Get: %v %+v", err, got)
	}
	if err := store.Destroy(ctx, sid); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := store.Get(ctx, sid); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
