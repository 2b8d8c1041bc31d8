package ratelimit

import (
	"context"
	"testing"
)

func TestNewRedisStore_RequiresAddr(t *testing.T) {
	if _, err := NewRedisStore(RedisConfig{}); err == nil {
		t.Fatal("Expected error for missing address")
	}
}

func TestNewRedisStore_UnreachableFailsOpen(t *testing.T) {
	// Nothing listens on port 1; construction must still succeed so the
	// limiter can fail open per request instead of blocking startup.
	store, err := NewRedisStore(RedisConfig{Addr: "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("Expected store despite unreachable Redis, got %v", err)
	}
	defer store.Close()

	if err := store.Ping(context.Background()); err == nil {
		t.Error("Expected ping to report the store unreachable")
	}

	limiter := NewLimiter(store)
	decision := limiter.IsAllowed(context.Background(), "user-1", TierFree, "")
	if !decision.Allowed {
		t.Fatal("Expected fail-open admission with the store down")
	}
	if !decision.Degraded {
		t.Error("Expected degraded flag on fail-open admission")
	}
}
