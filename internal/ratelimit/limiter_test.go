package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fixedTime is mid-window so tests never straddle a bucket boundary.
var fixedTime = time.Date(2026, 3, 15, 10, 30, 30, 0, time.UTC)

func newTestLimiter(store CounterStore) *Limiter {
	l := NewLimiter(store)
	l.now = func() time.Time { return fixedTime }
	return l
}

type failingStore struct{}

func (failingStore) CheckAndIncrement(context.Context, [3]string, [3]int64, [3]time.Duration) (Verdict, error) {
	return Verdict{}, errors.New("connection refused")
}
func (failingStore) Get(context.Context, string) (int64, error) { return 0, errors.New("down") }
func (failingStore) DeleteByPrefix(context.Context, string) (int, error) {
	return 0, errors.New("down")
}
func (failingStore) Ping(context.Context) error { return errors.New("down") }
func (failingStore) Close() error               { return nil }

func TestLimiter_FreeTierMinuteCap(t *testing.T) {
	limiter := newTestLimiter(NewMemoryStore())
	ctx := context.Background()

	limits := LimitsForTier(TierFree)
	for i := 0; i < limits.PerMinute; i++ {
		decision := limiter.IsAllowed(ctx, "user-1", TierFree, "")
		if !decision.Allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
		wantRemaining := limits.PerMinute - (i + 1)
		if decision.Remaining != wantRemaining {
			t.Errorf("Expected remaining %d after request %d, got %d", wantRemaining, i+1, decision.Remaining)
		}
	}

	decision := limiter.IsAllowed(ctx, "user-1", TierFree, "")
	if decision.Allowed {
		t.Fatal("Expected request over the minute cap to be blocked")
	}
	if decision.LimitType != "minute" {
		t.Errorf("Expected minute limit type, got %s", decision.LimitType)
	}
	if decision.Limit != limits.PerMinute {
		t.Errorf("Expected limit %d, got %d", limits.PerMinute, decision.Limit)
	}
	if decision.Remaining != 0 {
		t.Errorf("Expected zero remaining, got %d", decision.Remaining)
	}
	if decision.RetryAfter <= 0 || decision.RetryAfter > 60 {
		t.Errorf("Expected retry-after within the minute window, got %d", decision.RetryAfter)
	}
	if decision.ResetTime != WindowMinute.NextBoundary(fixedTime) {
		t.Errorf("Expected reset at the next minute boundary, got %d", decision.ResetTime)
	}
}

func TestLimiter_IdentifiersAreIndependent(t *testing.T) {
	limiter := newTestLimiter(NewMemoryStore())
	ctx := context.Background()

	for i := 0; i < LimitsForTier(TierFree).PerMinute; i++ {
		limiter.IsAllowed(ctx, "user-a", TierFree, "")
	}
	if limiter.IsAllowed(ctx, "user-a", TierFree, "").Allowed {
		t.Fatal("Expected user-a to be blocked")
	}
	if !limiter.IsAllowed(ctx, "user-b", TierFree, "").Allowed {
		t.Error("Expected user-b to be unaffected by user-a's counters")
	}
}

func TestLimiter_UnknownTierFallsBackToFree(t *testing.T) {
	limiter := newTestLimiter(NewMemoryStore())
	ctx := context.Background()

	free := LimitsForTier(TierFree)
	decision := limiter.IsAllowed(ctx, "user-x", Tier("platinum"), "")
	if !decision.Allowed {
		t.Fatal("Expected first request to be allowed")
	}
	if decision.Limit != free.PerMinute {
		t.Errorf("Expected unknown tier to use free caps, got limit %d", decision.Limit)
	}
}

func TestLimiter_TierCaps(t *testing.T) {
	tests := []struct {
		tier      Tier
		perMinute int
		perHour   int
		perDay    int
	}{
		{TierFree, 10, 100, 1000},
		{TierPro, 60, 1000, 10000},
		{TierBusiness, 120, 5000, 50000},
		{TierEnterprise, 300, 20000, 200000},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			limits := LimitsForTier(tt.tier)
			if limits.PerMinute != tt.perMinute || limits.PerHour != tt.perHour || limits.PerDay != tt.perDay {
				t.Errorf("Unexpected caps for %s: %+v", tt.tier, limits)
			}
		})
	}
}

func TestLimiter_FailOpen(t *testing.T) {
	limiter := newTestLimiter(failingStore{})

	decision := limiter.IsAllowed(context.Background(), "user-1", TierFree, "")
	if !decision.Allowed {
		t.Fatal("Expected request to be admitted when the store is down")
	}
	if !decision.Degraded {
		t.Error("Expected degraded flag on fail-open admission")
	}
	if limiter.Available(context.Background()) {
		t.Error("Expected availability check to report the store down")
	}
}

func TestLimiter_HourWindowBlockReported(t *testing.T) {
	store := NewMemoryStore()
	store.now = func() time.Time { return fixedTime }
	limiter := newTestLimiter(store)
	ctx := context.Background()

	// Pre-load the hour counter to its cap without touching minute or day.
	limits := LimitsForTier(TierFree)
	hourKey := counterKey("user-1", WindowHour, fixedTime, "")
	store.counters[hourKey] = &memoryCounter{
		count:     int64(limits.PerHour),
		expiresAt: fixedTime.Add(time.Hour),
	}

	decision := limiter.IsAllowed(ctx, "user-1", TierFree, "")
	if decision.Allowed {
		t.Fatal("Expected block on the exhausted hour window")
	}
	if decision.LimitType != "hour" {
		t.Errorf("Expected hour limit type, got %s", decision.LimitType)
	}
	if decision.Limit != limits.PerHour {
		t.Errorf("Expected hour cap %d, got %d", limits.PerHour, decision.Limit)
	}
}

func TestLimiter_BlockedRequestDoesNotConsume(t *testing.T) {
	store := NewMemoryStore()
	limiter := newTestLimiter(store)
	ctx := context.Background()

	for i := 0; i < LimitsForTier(TierFree).PerMinute; i++ {
		limiter.IsAllowed(ctx, "user-1", TierFree, "")
	}
	limiter.IsAllowed(ctx, "user-1", TierFree, "")

	// Hour and day counters must still reflect only the admitted requests.
	hourCount, _ := store.Get(ctx, counterKey("user-1", WindowHour, fixedTime, ""))
	if hourCount != int64(LimitsForTier(TierFree).PerMinute) {
		t.Errorf("Expected hour counter to stay at %d, got %d", LimitsForTier(TierFree).PerMinute, hourCount)
	}
}

func TestLimiter_ConcurrentBoundaryAdmitsExactlyLimit(t *testing.T) {
	limiter := newTestLimiter(NewMemoryStore())
	ctx := context.Background()

	limit := LimitsForTier(TierFree).PerMinute
	attempts := limit + 15

	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.IsAllowed(ctx, "user-1", TierFree, "").Allowed {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	if admitted != int64(limit) {
		t.Errorf("Expected exactly %d admissions under contention, got %d", limit, admitted)
	}
}

func TestLimiter_UsageStats(t *testing.T) {
	limiter := newTestLimiter(NewMemoryStore())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		limiter.IsAllowed(ctx, "user-1", TierPro, "")
	}

	stats, err := limiter.UsageStats(ctx, "user-1", TierPro)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stats.Tier != TierPro {
		t.Errorf("Expected tier pro, got %s", stats.Tier)
	}
	for _, window := range []string{"minute", "hour", "day"} {
		if stats.CurrentUsage[window] != 3 {
			t.Errorf("Expected usage 3 in %s window, got %d", window, stats.CurrentUsage[window])
		}
	}
	if stats.Remaining["minute"] != int64(LimitsForTier(TierPro).PerMinute-3) {
		t.Errorf("Expected remaining %d, got %d", LimitsForTier(TierPro).PerMinute-3, stats.Remaining["minute"])
	}
	if stats.ResetTimes["minute"] != WindowMinute.NextBoundary(fixedTime) {
		t.Errorf("Unexpected minute reset time %d", stats.ResetTimes["minute"])
	}
}

func TestLimiter_Reset(t *testing.T) {
	limiter := newTestLimiter(NewMemoryStore())
	ctx := context.Background()

	for i := 0; i < LimitsForTier(TierFree).PerMinute; i++ {
		limiter.IsAllowed(ctx, "user-1", TierFree, "")
	}
	if limiter.IsAllowed(ctx, "user-1", TierFree, "").Allowed {
		t.Fatal("Expected user to be blocked before reset")
	}

	if !limiter.Reset(ctx, "user-1") {
		t.Fatal("Expected reset to succeed")
	}
	if !limiter.IsAllowed(ctx, "user-1", TierFree, "").Allowed {
		t.Error("Expected user to be admitted after reset")
	}

	stats, err := limiter.UsageStats(ctx, "user-1", TierFree)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stats.CurrentUsage["hour"] != 1 {
		t.Errorf("Expected only the post-reset request counted, got %d", stats.CurrentUsage["hour"])
	}
}
