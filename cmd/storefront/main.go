package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcart "github.com/Igorseven/Ecommerce-Web/internal/application/cart"
	appcatalog "github.com/Igorseven/Ecommerce-Web/internal/application/catalog"
	appcheckout "github.com/Igorseven/Ecommerce-Web/internal/application/checkout"
	apporder "github.com/Igorseven/Ecommerce-Web/internal/application/order"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/checkout"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/backend"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/catalog"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/config"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/logger"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/persistence"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/telemetry"
	"github.com/Igorseven/Ecommerce-Web/internal/interfaces/http/handler"
	"github.com/Igorseven/Ecommerce-Web/internal/interfaces/http/middleware"
	"github.com/Igorseven/Ecommerce-Web/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       serviceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	var (
		meter   metric.Meter
		metrics *telemetry.StorefrontMetrics
	)
	if meterProvider.IsEnabled() {
		meter = meterProvider.Meter(serviceName)
		if metrics, err = telemetry.NewStorefrontMetrics(meter); err != nil {
			log.Warn("Storefront metrics unavailable", zap.Error(err))
		}
	}

	// Cart storage
	storageFactory := persistence.NewStorageFactory(cfg,
		persistence.WithLogger(log),
		persistence.WithMemoryFallback(cfg.Cart.FallbackToMemory),
	)
	defer func() {
		if err := storageFactory.Close(); err != nil {
			log.Warn("Failed to close cart storage", zap.Error(err))
		}
	}()

	storage, err := storageFactory.CreateStorage(ctx)
	if err != nil {
		log.Fatal("Failed to create cart storage", zap.Error(err))
	}

	// Remote services
	backendClient, err := backend.NewClient(
		backend.NewConfig(cfg.Backend.BaseURL, cfg.Backend.Timeout),
		backend.WithMetrics(metrics),
	)
	if err != nil {
		log.Fatal("Failed to create backend client", zap.Error(err))
	}

	catalogClient, err := catalog.NewClient(
		catalog.NewConfig(cfg.Catalog.BaseURL, cfg.Catalog.Timeout),
		catalog.WithMetrics(metrics),
	)
	if err != nil {
		log.Fatal("Failed to create catalog client", zap.Error(err))
	}

	// Application services
	cartStore := appcart.NewStore(ctx, storage,
		appcart.WithLogger(log),
		appcart.WithMetrics(metrics),
	)
	orchestrator := appcheckout.NewOrchestrator(backendClient, backendClient, cartStore,
		appcheckout.WithLogger(log),
		appcheckout.WithMetrics(metrics),
		appcheckout.WithShippingQuote(cfg.Backend.CalculateShipping),
	)
	catalogService := appcatalog.NewService(catalogClient, cfg.Catalog.PageSize)
	orderService := apporder.NewService(backendClient, log)

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Version)
	systemHandler.AddCheck("cart_storage", cartStorageCheck(storage))

	handlers := router.Handlers{
		System:   systemHandler,
		Catalog:  handler.NewCatalogHandler(catalogService),
		Cart:     handler.NewCartHandler(cartStore, catalogService),
		Checkout: handler.NewCheckoutHandler(orchestrator, cartStore, checkout.AutofillPolicy(cfg.Checkout.AutofillPolicy)),
		Order:    handler.NewOrderHandler(orderService),
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:         log,
		Meter:          meter,
		ServiceName:    serviceName,
		Tracing:        tracerProvider.IsEnabled(),
		TrustedProxies: cfg.HTTP.TrustedProxies,
		CORS:           corsConfig,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
	})
	if err != nil {
		log.Fatal("Failed to create HTTP engine", zap.Error(err))
	}
	router.Mount(engine, handlers)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush logs", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// cartStorageCheck fails when the cart storage cannot be read. An empty
// storage is healthy.
func cartStorageCheck(storage cart.Storage) handler.HealthCheck {
	return func(ctx context.Context) error {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if _, err := storage.Load(checkCtx); err != nil && !errors.Is(err, cart.ErrSnapshotNotFound) {
			return err
		}
		return nil
	}
}
