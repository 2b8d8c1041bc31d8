package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Window is one of the three fixed enforcement windows. Buckets are
// calendar-aligned (now / length), which permits up to a 2x burst at window
// boundaries; an accepted tradeoff over a sliding log.
type Window struct {
	Name   string
	Length time.Duration
}

var (
	WindowMinute = Window{Name: "minute", Length: time.Minute}
	WindowHour   = Window{Name: "hour", Length: time.Hour}
	WindowDay    = Window{Name: "day", Length: 24 * time.Hour}

	// Checked in strict precedence order: a minute-level block is reported
	// even when the hour and day counters are also over cap.
	windows = [3]Window{WindowMinute, WindowHour, WindowDay}
)

// Bucket returns the calendar-aligned bucket index for a point in time.
func (w Window) Bucket(now time.Time) int64 {
	return now.Unix() / int64(w.Length/time.Second)
}

// NextBoundary returns the unix timestamp at which the current bucket rolls
// over.
func (w Window) NextBoundary(now time.Time) int64 {
	length := int64(w.Length / time.Second)
	return (now.Unix()/length + 1) * length
}

const keyPrefix = "rate_limit"

// counterKey builds "rate_limit:{identifier}:{window}:{bucket}[:{endpoint}]".
func counterKey(identifier string, w Window, now time.Time, endpoint string) string {
	key := fmt.Sprintf("%s:%s:%s:%d", keyPrefix, identifier, w.Name, w.Bucket(now))
	if endpoint != "" {
		key += ":" + endpoint
	}
	return key
}

// identifierPrefix is the common prefix of every counter owned by an
// identifier, across windows, buckets, and endpoints.
func identifierPrefix(identifier string) string {
	return fmt.Sprintf("%s:%s:", keyPrefix, identifier)
}

// Verdict is the store-level outcome of a check-and-increment.
type Verdict struct {
	Allowed bool
	// BlockedWindow indexes into the key triple when Allowed is false.
	BlockedWindow int
	// Counts holds the post-increment counter values when allowed, or the
	// observed count of the blocking window when not.
	Counts [3]int64
}

// CounterStore is the shared atomic counter service backing the limiter.
// CheckAndIncrement must be atomic across concurrent callers sharing a key
// triple: two simultaneous requests must not both pass when one slot
// remains.
type CounterStore interface {
	// CheckAndIncrement verifies every counter is under its limit and, only
	// then, increments all of them, refreshing each TTL.
	CheckAndIncrement(ctx context.Context, keys [3]string, limits [3]int64, ttls [3]time.Duration) (Verdict, error)
	// Get reads a single counter; missing keys read as zero.
	Get(ctx context.Context, key string) (int64, error)
	// DeleteByPrefix removes every counter under a key prefix and reports
	// how many were deleted.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
	// Ping reports store reachability.
	Ping(ctx context.Context) error
	Close() error
}
