// Package ratelimit enforces tiered request caps over three fixed windows
// (minute, hour, day) backed by a shared atomic counter store.
package ratelimit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"go-qr-platform/internal/logger"
)

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed bool `json:"allowed"`
	// Degraded marks decisions taken while the counter store was
	// unreachable; such requests are admitted without counting (fail open).
	Degraded   bool   `json:"degraded,omitempty"`
	LimitType  string `json:"limit_type"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
	ResetTime  int64  `json:"reset_time"`
	RetryAfter int64  `json:"retry_after,omitempty"`
	Counts     struct {
		Minute int64 `json:"minute"`
		Hour   int64 `json:"hour"`
		Day    int64 `json:"day"`
	} `json:"counts"`
}

// UsageStats is a point-in-time snapshot of all three windows.
type UsageStats struct {
	Tier         Tier             `json:"tier"`
	Limits       Limits           `json:"limits"`
	CurrentUsage map[string]int64 `json:"current_usage"`
	Remaining    map[string]int64 `json:"remaining"`
	ResetTimes   map[string]int64 `json:"reset_times"`
}

// Limiter is the tiered multi-window rate limiter. Construct it with an
// injected counter store; it keeps no hidden global state.
type Limiter struct {
	store CounterStore
	log   *logrus.Entry
	now   func() time.Time
}

// NewLimiter creates a limiter over the given counter store.
func NewLimiter(store CounterStore) *Limiter {
	return &Limiter{
		store: store,
		log:   logger.WithComponent("rate_limiter"),
		now:   time.Now,
	}
}

// IsAllowed checks and, when admitted, consumes one slot in each window for
// the identifier. If the counter store is unreachable the request is
// admitted with Degraded set: availability over strictness.
func (l *Limiter) IsAllowed(ctx context.Context, identifier string, tier Tier, endpoint string) Decision {
	limits := LimitsForTier(tier)
	now := l.now()

	keys := [3]string{
		counterKey(identifier, WindowMinute, now, endpoint),
		counterKey(identifier, WindowHour, now, endpoint),
		counterKey(identifier, WindowDay, now, endpoint),
	}
	caps := [3]int64{int64(limits.PerMinute), int64(limits.PerHour), int64(limits.PerDay)}
	ttls := [3]time.Duration{WindowMinute.Length, WindowHour.Length, WindowDay.Length}

	verdict, err := l.store.CheckAndIncrement(ctx, keys, caps, ttls)
	if err != nil {
		l.log.WithError(err).WithFields(logrus.Fields{
			"identifier": identifier,
			"tier":       tier,
		}).Warn("Counter store unreachable, failing open")
		return Decision{
			Allowed:   true,
			Degraded:  true,
			LimitType: WindowMinute.Name,
			Limit:     limits.PerMinute,
			Remaining: limits.PerMinute,
			ResetTime: WindowMinute.NextBoundary(now),
		}
	}

	if !verdict.Allowed {
		blocked := windows[verdict.BlockedWindow]
		return Decision{
			Allowed:    false,
			LimitType:  blocked.Name,
			Limit:      int(caps[verdict.BlockedWindow]),
			Remaining:  0,
			ResetTime:  blocked.NextBoundary(now),
			RetryAfter: blocked.NextBoundary(now) - now.Unix(),
		}
	}

	decision := Decision{
		Allowed:   true,
		LimitType: WindowMinute.Name,
		Limit:     limits.PerMinute,
		Remaining: minRemaining(caps, verdict.Counts),
		ResetTime: WindowMinute.NextBoundary(now),
	}
	decision.Counts.Minute = verdict.Counts[0]
	decision.Counts.Hour = verdict.Counts[1]
	decision.Counts.Day = verdict.Counts[2]
	return decision
}

// UsageStats reads the identifier's current counters without consuming a
// slot.
func (l *Limiter) UsageStats(ctx context.Context, identifier string, tier Tier) (*UsageStats, error) {
	limits := LimitsForTier(tier)
	now := l.now()
	caps := [3]int64{int64(limits.PerMinute), int64(limits.PerHour), int64(limits.PerDay)}

	stats := &UsageStats{
		Tier:         tier,
		Limits:       limits,
		CurrentUsage: make(map[string]int64, 3),
		Remaining:    make(map[string]int64, 3),
		ResetTimes:   make(map[string]int64, 3),
	}

	for i, w := range windows {
		count, err := l.store.Get(ctx, counterKey(identifier, w, now, ""))
		if err != nil {
			return nil, err
		}
		stats.CurrentUsage[w.Name] = count
		remaining := caps[i] - count
		if remaining < 0 {
			remaining = 0
		}
		stats.Remaining[w.Name] = remaining
		stats.ResetTimes[w.Name] = w.NextBoundary(now)
	}
	return stats, nil
}

// Reset clears every counter for an identifier across all windows, buckets,
// and endpoints. Tier gating is the caller's responsibility.
func (l *Limiter) Reset(ctx context.Context, identifier string) bool {
	deleted, err := l.store.DeleteByPrefix(ctx, identifierPrefix(identifier))
	if err != nil {
		l.log.WithError(err).WithField("identifier", identifier).Error("Failed to reset rate limits")
		return false
	}
	l.log.WithFields(logrus.Fields{
		"identifier": identifier,
		"deleted":    deleted,
	}).Info("Rate limits reset")
	return true
}

// Available reports whether the counter store is reachable.
func (l *Limiter) Available(ctx context.Context) bool {
	return l.store.Ping(ctx) == nil
}

func minRemaining(caps [3]int64, counts [3]int64) int {
	remaining := caps[0] - counts[0]
	for i := 1; i < 3; i++ {
		if r := caps[i] - counts[i]; r < remaining {
			remaining = r
		}
	}
	if remaining < 0 {
		remaining = 0
	}
	return int(remaining)
}
