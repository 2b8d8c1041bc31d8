package container

import (
	"fmt"
	"net/http"

	"go-qr-platform/internal/config"
	"go-qr-platform/internal/decode"
	"go-qr-platform/internal/factory"
	"go-qr-platform/internal/logger"
	"go-qr-platform/internal/observer"
	"go-qr-platform/internal/ratelimit"
	"go-qr-platform/internal/render"
	"go-qr-platform/internal/repository"
	"go-qr-platform/internal/service"
	"go-qr-platform/internal/storage"
	"go-qr-platform/internal/transport"
	"go-qr-platform/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config        *config.Config
	imageFetcher  storage.ImageFetcher
	blobStorage   storage.BlobStorage
	repository    repository.ImageRepository
	pipeline      *decode.Pipeline
	renderEngine  *render.Engine
	counterStore  ratelimit.CounterStore
	limiter       *ratelimit.Limiter
	eventBus      *observer.EventBus
	metrics       *observer.MetricsObserver
	scanService   service.ScanService
	designService service.DesignService
	handler       http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Build dependency graph
	imageFetcher := storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout)

	var blobStorage storage.BlobStorage
	if cfg.AzureConfigured() {
		blobStorage, err = storage.NewAzureStorage(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to configure blob storage: %w", err)
		}
	}

	imageRepository := repository.NewImageRepository(imageFetcher, blobStorage)

	components := factory.NewComponentFactory()

	engines := make([]decode.BarcodeEngine, 0, len(cfg.DecodeEngines))
	for _, name := range cfg.DecodeEngines {
		engine, err := components.EngineFactory.CreateEngine(factory.EngineType(name))
		if err != nil {
			return nil, err
		}
		engines = append(engines, engine)
	}
	pipeline := decode.NewPipeline(engines...)

	renderEngine := render.NewEngine()

	eventBus := observer.NewEventBus()
	metrics := observer.NewMetricsObserver()
	eventBus.Subscribe(observer.NewLoggingObserver(logger.Logger))
	eventBus.Subscribe(metrics)

	var (
		counterStore ratelimit.CounterStore
		limiter      *ratelimit.Limiter
	)
	if cfg.RateLimitEnabled {
		counterStore, err = components.StoreFactory.CreateStore(
			factory.StoreType(cfg.CounterBackend),
			ratelimit.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create counter store: %w", err)
		}
		limiter = ratelimit.NewLimiter(counterStore)
	}

	scanService := service.NewScanService(imageRepository, pipeline, eventBus)
	designService := service.NewDesignService(imageRepository, renderEngine, eventBus)

	handler := transport.NewHandler(transport.Handlers{
		Scans:     scanService,
		Designs:   designService,
		Limiter:   limiter,
		Events:    eventBus,
		Validator: validation.NewPayloadValidator(),
		Config:    cfg,
	})

	return &Container{
		config:        cfg,
		imageFetcher:  imageFetcher,
		blobStorage:   blobStorage,
		repository:    imageRepository,
		pipeline:      pipeline,
		renderEngine:  renderEngine,
		counterStore:  counterStore,
		limiter:       limiter,
		eventBus:      eventBus,
		metrics:       metrics,
		scanService:   scanService,
		designService: designService,
		handler:       handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Metrics returns the in-process event counters
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Close releases backing connections.
func (c *Container) Close() error {
	if c.counterStore != nil {
		return c.counterStore.Close()
	}
	return nil
}
