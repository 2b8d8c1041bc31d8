package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// EventType represents the type of platform event
type EventType string

const (
	// ScanStarted when a decode request begins
	ScanStarted EventType = "scan_started"
	// ScanCompleted when a decode finds at least one symbol
	ScanCompleted EventType = "scan_completed"
	// ScanFailed when the cascade finds nothing or the source is unreadable
	ScanFailed EventType = "scan_failed"
	// RenderCompleted when a styled QR image is produced
	RenderCompleted EventType = "render_completed"
	// RenderFailed when rendering is rejected or errors
	RenderFailed EventType = "render_failed"
	// StyleFallback when unknown styling enums were silently defaulted
	StyleFallback EventType = "style_fallback"
	// RateLimitExceeded when a request is rejected by the limiter
	RateLimitExceeded EventType = "rate_limit_exceeded"
)

// Event is one observable platform occurrence.
type Event struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event Event)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event Event)
}

// EventBus is the default Subject implementation.
type EventBus struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventBus creates an empty event bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

func (b *EventBus) Subscribe(observer Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, observer)
}

func (b *EventBus) Unsubscribe(observer Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, o := range b.observers {
		if o.GetObserverName() == observer.GetObserverName() {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

func (b *EventBus) NotifyObservers(ctx context.Context, event Event) {
	b.mu.RLock()
	observers := make([]Observer, len(b.observers))
	copy(observers, b.observers)
	b.mu.RUnlock()

	for _, observer := range observers {
		observer.OnEvent(ctx, event)
	}
}

// LoggingObserver logs platform events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) OnEvent(_ context.Context, event Event) {
	entry := o.logger.WithFields(logrus.Fields{
		"event_type":         event.EventType,
		"processing_time_ms": event.ProcessingTime.Milliseconds(),
		"success":            event.Success,
	})
	for key, value := range event.Metadata {
		entry = entry.WithField(key, value)
	}

	switch event.EventType {
	case ScanFailed, RenderFailed:
		entry.WithField("error", event.ErrorMessage).Warn("Platform event")
	case StyleFallback:
		entry.Warn("Unknown styling options were defaulted")
	default:
		entry.Info("Platform event")
	}
}

func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver keeps in-process counters of platform events.
type MetricsObserver struct {
	mu     sync.Mutex
	counts map[EventType]int64
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{counts: make(map[EventType]int64)}
}

func (o *MetricsObserver) OnEvent(_ context.Context, event Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counts[event.EventType]++
}

func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// Counts returns a snapshot of event totals.
func (o *MetricsObserver) Counts() map[EventType]int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	snapshot := make(map[EventType]int64, len(o.counts))
	for k, v := range o.counts {
		snapshot[k] = v
	}
	return snapshot
}
