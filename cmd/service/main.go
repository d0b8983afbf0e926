// Package main runs the playbook HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ahmedtravel/playbook/internal/adapters/catalog"
	"github.com/ahmedtravel/playbook/internal/adapters/clients"
	"github.com/ahmedtravel/playbook/internal/adapters/clients/acl"
	"github.com/ahmedtravel/playbook/internal/adapters/export"
	"github.com/ahmedtravel/playbook/internal/adapters/flags"
	"github.com/ahmedtravel/playbook/internal/adapters/http"
	"github.com/ahmedtravel/playbook/internal/adapters/http/handlers"
	"github.com/ahmedtravel/playbook/internal/adapters/storage"
	"github.com/ahmedtravel/playbook/internal/app"
	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/platform/config"
	"github.com/ahmedtravel/playbook/internal/platform/logging"
	"github.com/ahmedtravel/playbook/internal/platform/telemetry"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// Build-time variables, injected via ldflags:
//
//	go build -ldflags "-X main.Version=1.4.0 -X main.Commit=$(git rev-parse HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	defer func() { _ = logging.Close() }()

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	registry := ports.NewHealthRegistry()

	products := catalog.NewFileStore(catalog.FileStoreConfig{
		Path:      cfg.Catalog.ProductsPath,
		BackupDir: cfg.Catalog.BackupDir,
		Retention: cfg.Catalog.BackupRetention,
		LockStale: cfg.Catalog.LockStale,
		Logger:    logger,
	})

	sources := []ports.CatalogSource{
		catalog.NewReferenceSource(),
		catalog.NewProductSource("products", products),
	}

	if cfg.Catalog.Remote.Enabled {
		supplier, err := newSupplierClient(cfg, logger)
		if err != nil {
			return err
		}

		sources = append(sources, catalog.NewProductSource(cfg.Catalog.Remote.Name, supplier))

		if err := registry.Register(supplier); err != nil {
			return fmt.Errorf("registering supplier health check: %w", err)
		}
	}

	catalogSvc := app.NewCatalogService(app.CatalogServiceConfig{
		Sources:     sources,
		LoadTimeout: cfg.Catalog.LoadTimeout,
		Logger:      logger,
	})

	if _, err := catalogSvc.Refresh(ctx); err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	if err := registry.Register(catalogSvc); err != nil {
		return fmt.Errorf("registering catalog health check: %w", err)
	}

	kv, closeKV, err := newKeyValueStore(cfg, registry)
	if err != nil {
		return err
	}

	defer closeKV()

	ff := flags.New(cfg.Features)

	pricing := app.NewPricingService(app.PricingServiceConfig{
		Catalog: catalogSvc,
		History: storage.NewHistoryRepository(kv, cfg.Storage.KeyPrefix),
		Logger:  logger,
	})

	text := export.NewTextExporter()
	exportSvc := app.NewExportService(app.ExportServiceConfig{
		Pricing:     pricing,
		Exporters:   []ports.QuoteExporter{text, export.NewHTMLExporter(), export.NewPDFExporter(text)},
		History:     export.NewCSVHistoryExporter(time.Local),
		Flags:       ff,
		CompanyName: cfg.Export.CompanyName,
		WhatsApp:    cfg.Export.WhatsAppNumber,
		Logger:      logger,
	})

	playbook := app.NewPlaybookService(app.PlaybookServiceConfig{
		Catalog:   catalogSvc,
		Favorites: storage.NewFavoritesRepository(kv, cfg.Storage.KeyPrefix),
		Logger:    logger,
	})

	recommender := app.NewRecommendationService(app.RecommendationServiceConfig{
		Catalog:         catalogSvc,
		Strategies:      newStrategies(cfg.Recommender),
		DefaultStrategy: cfg.Recommender.DefaultStrategy,
		Flags:           ff,
		Logger:          logger,
	})

	ingest := app.NewIngestService(app.IngestServiceConfig{
		Store:     products,
		Refresher: catalogSvc,
		Logger:    logger,
	})

	server := http.New(&cfg.Server, cfg.CORS, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Config:          cfg,
		Flags:           ff,
		Health:          handlers.NewHealthHandler(registry, handlers.NewBuildInfo(cfg.App.Name, Version, Commit, BuildTime)),
		Quotes:          handlers.NewQuoteHandler(pricing, exportSvc),
		Catalog:         handlers.NewCatalogHandler(catalogSvc),
		Playbook:        handlers.NewPlaybookHandler(playbook),
		Recommendations: handlers.NewRecommendationHandler(recommender),
		Admin:           handlers.NewAdminHandler(catalogSvc, ingest),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err, failed := <-server.Start(); failed {
			return err
		}

		return nil
	})

	g.Go(func() error {
		catalogSvc.Run(gctx, cfg.Catalog.RefreshInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		logger.Info("initiating graceful shutdown", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

func newSupplierClient(cfg *config.Config, logger *slog.Logger) (*acl.SupplierCatalogClient, error) {
	clientCfg := clients.FromConfig(cfg.Catalog.Remote.Name, cfg.Catalog.Remote.BaseURL, cfg.Client)
	clientCfg.Logger = logger

	client, err := clients.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating supplier client: %w", err)
	}

	return acl.NewSupplierCatalogClient(client), nil
}

// newKeyValueStore selects the list backend. The returned func releases it.
func newKeyValueStore(cfg *config.Config, registry ports.HealthRegistry) (ports.KeyValueStore, func(), error) {
	if cfg.Storage.Driver != "redis" {
		return storage.NewMemoryStore(), func() {}, nil
	}

	store := storage.NewRedisStore(cfg.Storage.Redis)
	if err := registry.Register(store); err != nil {
		return nil, nil, fmt.Errorf("registering storage health check: %w", err)
	}

	return store, func() { _ = store.Close() }, nil
}

func newStrategies(cfg config.RecommenderConfig) []domain.Recommender {
	structured := domain.NewStructuredStrategy()
	structured.TourLimit = cfg.Limit

	freeform := domain.NewFreeformStrategy(domain.FreeformConfig{
		Vectors: domain.DefaultVectors(domain.VectorWeights{
			Thrill:   cfg.Weights.Thrill,
			Serenity: cfg.Weights.Serenity,
			Culture:  cfg.Weights.Culture,
			Luxury:   cfg.Weights.Luxury,
			Morning:  cfg.Weights.Morning,
			Night:    cfg.Weights.Night,
		}),
		TourLimit: cfg.Limit,
	})

	return []domain.Recommender{structured, freeform}
}
