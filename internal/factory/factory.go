package factory

import (
	"fmt"

	"go-qr-platform/internal/decode"
	"go-qr-platform/internal/ratelimit"
)

// EngineType selects a concrete barcode decode engine
type EngineType string

const (
	// ZXingEngine is the high-accuracy, geometry-reporting engine
	ZXingEngine EngineType = "zxing"
	// QuircEngine is the lighter fallback engine
	QuircEngine EngineType = "quirc"
)

// StoreType selects a rate-limit counter store backend
type StoreType string

const (
	// RedisStore shares counters across worker processes
	RedisStore StoreType = "redis"
	// MemoryStore keeps counters in process memory
	MemoryStore StoreType = "memory"
)

// EngineFactory creates decode engines
type EngineFactory interface {
	CreateEngine(engineType EngineType) (decode.BarcodeEngine, error)
}

// StoreFactory creates counter store implementations
type StoreFactory interface {
	CreateStore(storeType StoreType, redisCfg ratelimit.RedisConfig) (ratelimit.CounterStore, error)
}

type engineFactory struct{}

// NewEngineFactory creates a new engine factory
func NewEngineFactory() EngineFactory {
	return &engineFactory{}
}

func (f *engineFactory) CreateEngine(engineType EngineType) (decode.BarcodeEngine, error) {
	switch engineType {
	case ZXingEngine:
		return decode.NewZXingEngine(), nil
	case QuircEngine:
		return decode.NewQuircEngine(), nil
	default:
		return nil, fmt.Errorf("unsupported engine type: %s", engineType)
	}
}

type storeFactory struct{}

// NewStoreFactory creates a new store factory
func NewStoreFactory() StoreFactory {
	return &storeFactory{}
}

func (f *storeFactory) CreateStore(storeType StoreType, redisCfg ratelimit.RedisConfig) (ratelimit.CounterStore, error) {
	switch storeType {
	case RedisStore:
		return ratelimit.NewRedisStore(redisCfg)
	case MemoryStore:
		return ratelimit.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	EngineFactory EngineFactory
	StoreFactory  StoreFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory() *ComponentFactory {
	return &ComponentFactory{
		EngineFactory: NewEngineFactory(),
		StoreFactory:  NewStoreFactory(),
	}
}
