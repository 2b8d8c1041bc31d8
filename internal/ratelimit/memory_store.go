package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore implements CounterStore in process memory. Suitable for tests
// and single-process deployments only; multi-worker setups need the Redis
// store so counters are shared.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*memoryCounter
	now      func() time.Time
}

type memoryCounter struct {
	count     int64
	expiresAt time.Time
}

// NewMemoryStore creates an in-process counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters: make(map[string]*memoryCounter),
		now:      time.Now,
	}
}

func (s *MemoryStore) CheckAndIncrement(_ context.Context, keys [3]string, limits [3]int64, ttls [3]time.Duration) (Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for i, key := range keys {
		if current := s.liveCount(key, now); current >= limits[i] {
			verdict := Verdict{Allowed: false, BlockedWindow: i}
			verdict.Counts[i] = current
			return verdict, nil
		}
	}

	var verdict Verdict
	verdict.Allowed = true
	for i, key := range keys {
		counter, ok := s.counters[key]
		if !ok || now.After(counter.expiresAt) {
			counter = &memoryCounter{expiresAt: now.Add(ttls[i])}
			s.counters[key] = counter
		}
		counter.count++
		verdict.Counts[i] = counter.count
	}
	return verdict, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveCount(key, s.now()), nil
}

func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for key := range s.counters {
		if strings.HasPrefix(key, prefix) {
			delete(s.counters, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// liveCount reads a counter, treating expired entries as absent. Caller
// holds the lock.
func (s *MemoryStore) liveCount(key string, now time.Time) int64 {
	counter, ok := s.counters[key]
	if !ok || now.After(counter.expiresAt) {
		return 0
	}
	return counter.count
}
