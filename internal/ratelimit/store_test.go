package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestCounterKey(t *testing.T) {
	now := time.Unix(1800000000, 0)

	key := counterKey("user-1", WindowMinute, now, "")
	want := "rate_limit:user-1:minute:30000000"
	if key != want {
		t.Errorf("Expected key %q, got %q", want, key)
	}

	key = counterKey("user-1", WindowMinute, now, "/api/v1/qr/decode")
	want = "rate_limit:user-1:minute:30000000:/api/v1/qr/decode"
	if key != want {
		t.Errorf("Expected endpoint-scoped key %q, got %q", want, key)
	}
}

func TestWindowBuckets(t *testing.T) {
	now := time.Unix(3661, 0) // 01:01:01

	if got := WindowMinute.Bucket(now); got != 61 {
		t.Errorf("Expected minute bucket 61, got %d", got)
	}
	if got := WindowHour.Bucket(now); got != 1 {
		t.Errorf("Expected hour bucket 1, got %d", got)
	}
	if got := WindowDay.Bucket(now); got != 0 {
		t.Errorf("Expected day bucket 0, got %d", got)
	}

	if got := WindowMinute.NextBoundary(now); got != 3720 {
		t.Errorf("Expected next minute boundary 3720, got %d", got)
	}
	if got := WindowHour.NextBoundary(now); got != 7200 {
		t.Errorf("Expected next hour boundary 7200, got %d", got)
	}
}

func TestMemoryStore_CheckAndIncrement(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	keys := [3]string{"k:minute", "k:hour", "k:day"}
	limits := [3]int64{2, 10, 100}
	ttls := [3]time.Duration{time.Minute, time.Hour, 24 * time.Hour}

	for i := int64(1); i <= 2; i++ {
		verdict, err := store.CheckAndIncrement(ctx, keys, limits, ttls)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !verdict.Allowed {
			t.Fatalf("Expected request %d to pass", i)
		}
		if verdict.Counts != [3]int64{i, i, i} {
			t.Errorf("Expected counts %d across windows, got %v", i, verdict.Counts)
		}
	}

	verdict, err := store.CheckAndIncrement(ctx, keys, limits, ttls)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if verdict.Allowed {
		t.Fatal("Expected third request to be blocked")
	}
	if verdict.BlockedWindow != 0 {
		t.Errorf("Expected block on window 0, got %d", verdict.BlockedWindow)
	}

	// The block must not have advanced any counter.
	if count, _ := store.Get(ctx, "k:hour"); count != 2 {
		t.Errorf("Expected hour counter unchanged at 2, got %d", count)
	}
}

func TestMemoryStore_ExpiredCountersReadAsZero(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Unix(1000, 0)
	store.now = func() time.Time { return current }

	keys := [3]string{"e:minute", "e:hour", "e:day"}
	limits := [3]int64{1, 1, 1}
	ttls := [3]time.Duration{time.Minute, time.Minute, time.Minute}

	if verdict, _ := store.CheckAndIncrement(ctx, keys, limits, ttls); !verdict.Allowed {
		t.Fatal("Expected first request to pass")
	}
	if verdict, _ := store.CheckAndIncrement(ctx, keys, limits, ttls); verdict.Allowed {
		t.Fatal("Expected second request to be blocked")
	}

	// Advance past the TTL; the window has rolled over.
	current = current.Add(2 * time.Minute)
	if verdict, _ := store.CheckAndIncrement(ctx, keys, limits, ttls); !verdict.Allowed {
		t.Error("Expected expired counters to read as zero")
	}
	if count, _ := store.Get(ctx, "e:minute"); count != 1 {
		t.Errorf("Expected fresh counter at 1, got %d", count)
	}
}

func TestMemoryStore_DeleteByPrefix(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	keys := [3]string{
		"rate_limit:user-1:minute:1",
		"rate_limit:user-1:hour:1",
		"rate_limit:user-1:day:1",
	}
	store.CheckAndIncrement(ctx, keys, [3]int64{10, 10, 10},
		[3]time.Duration{time.Minute, time.Hour, 24 * time.Hour})
	store.CheckAndIncrement(ctx,
		[3]string{"rate_limit:user-2:minute:1", "rate_limit:user-2:hour:1", "rate_limit:user-2:day:1"},
		[3]int64{10, 10, 10},
		[3]time.Duration{time.Minute, time.Hour, 24 * time.Hour})

	deleted, err := store.DeleteByPrefix(ctx, identifierPrefix("user-1"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Expected 3 keys deleted, got %d", deleted)
	}

	if count, _ := store.Get(ctx, keys[0]); count != 0 {
		t.Errorf("Expected user-1 counters cleared, got %d", count)
	}
	if count, _ := store.Get(ctx, "rate_limit:user-2:minute:1"); count != 1 {
		t.Errorf("Expected user-2 counters untouched, got %d", count)
	}
}
