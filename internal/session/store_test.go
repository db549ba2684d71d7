package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_CreateAndGet(t *testing.T) {
	store, _ := newTestRedisStore(t, 30*time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, Session{UserID: 42, Role: "patient", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if token == "" {
		t.Fatal("Create returned empty token")
	}

	sess, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sess.UserID != 42 || sess.Role != "patient" || sess.DisplayName != "Ada" {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestRedisStore_UnknownToken(t *testing.T) {
	store, _ := newTestRedisStore(t, 30*time.Minute)

	_, err := store.Get(context.Background(), "no-such-token")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStore_IdleExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t, 30*time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, Session{UserID: 1, Role: "doctor"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	mr.FastForward(31 * time.Minute)

	if _, err := store.Get(ctx, token); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after idle expiry, got %v", err)
	}
}

func TestRedisStore_GetRefreshesTTL(t *testing.T) {
	store, mr := newTestRedisStore(t, 30*time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, Session{UserID: 1, Role: "patient"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Touch the session shortly before expiry, then advance past the
	// original deadline. The touch must have extended it.
	mr.FastForward(29 * time.Minute)
	if _, err := store.Get(ctx, token); err != nil {
		t.Fatalf("Get before expiry failed: %v", err)
	}

	mr.FastForward(20 * time.Minute)
	if _, err := store.Get(ctx, token); err != nil {
		t.Fatalf("expected refreshed session to survive, got %v", err)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newTestRedisStore(t, 30*time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, Session{UserID: 7, Role: "admin"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, token); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent token is a no-op.
	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("Delete of absent token failed: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, Session{UserID: 9, Role: "patient", DisplayName: "Bo"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	sess, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sess.UserID != 9 {
		t.Errorf("unexpected user id %d", sess.UserID)
	}

	base := time.Now()
	store.now = func() time.Time { return base.Add(31 * time.Minute) }
	if _, err := store.Get(ctx, token); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}
