//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/ahmedtravel/playbook/internal/adapters/catalog"
	"github.com/ahmedtravel/playbook/internal/adapters/clients"
	"github.com/ahmedtravel/playbook/internal/adapters/clients/acl"
	"github.com/ahmedtravel/playbook/internal/adapters/export"
	"github.com/ahmedtravel/playbook/internal/adapters/flags"
	"github.com/ahmedtravel/playbook/internal/adapters/http"
	"github.com/ahmedtravel/playbook/internal/adapters/http/handlers"
	"github.com/ahmedtravel/playbook/internal/adapters/storage"
	"github.com/ahmedtravel/playbook/internal/app"
	"github.com/ahmedtravel/playbook/internal/platform/config"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// harnessOptions tweaks the in-process service.
type harnessOptions struct {
	features    map[string]any
	supplierURL string
	kv          ports.KeyValueStore
}

// harness is a fully wired playbook API behind an httptest server.
type harness struct {
	server   *httptest.Server
	catalog  *app.CatalogService
	registry *ports.DefaultHealthRegistry
	dir      string
}

func testServiceConfig(dir string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "playbook-it", Version: "it", Environment: "test"},
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   5 * time.Second,
			IdleTimeout:    5 * time.Second,
			RequestTimeout: 5 * time.Second,
			MaxRequestSize: 1 << 20,
		},
		Auth: config.AuthConfig{AdminRole: "catalog-admin"},
		Client: config.ClientConfig{
			Timeout: 2 * time.Second,
			Retry: config.RetryConfig{
				MaxAttempts:     2,
				InitialInterval: 10 * time.Millisecond,
				MaxInterval:     50 * time.Millisecond,
				Multiplier:      2,
			},
			CircuitBreaker: config.CircuitBreakerConfig{MaxFailures: 2, Timeout: time.Minute, HalfOpenLimit: 1},
		},
		Catalog: config.CatalogConfig{
			ProductsPath:    filepath.Join(dir, "products.json"),
			BackupRetention: time.Hour,
			LockStale:       time.Second,
			LoadTimeout:     2 * time.Second,
			Remote:          config.RemoteCatalogConfig{Name: "supplier-catalog"},
		},
		Export: config.ExportConfig{CompanyName: "Ahmed Travel", WhatsAppNumber: "971500000000"},
	}
}

func newHarness(opts harnessOptions) (*harness, error) {
	dir, err := os.MkdirTemp("", "playbook-it-*")
	if err != nil {
		return nil, err
	}

	cfg := testServiceConfig(dir)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := ports.NewHealthRegistry()
	ff := flags.New(opts.features)

	products := catalog.NewFileStore(catalog.FileStoreConfig{
		Path:      cfg.Catalog.ProductsPath,
		Retention: cfg.Catalog.BackupRetention,
		LockStale: cfg.Catalog.LockStale,
		Logger:    logger,
	})

	sources := []ports.CatalogSource{
		catalog.NewReferenceSource(),
		catalog.NewProductSource("products", products),
	}

	if opts.supplierURL != "" {
		clientCfg := clients.FromConfig(cfg.Catalog.Remote.Name, opts.supplierURL, cfg.Client)
		clientCfg.Logger = logger

		client, err := clients.New(clientCfg)
		if err != nil {
			return nil, err
		}

		supplier := acl.NewSupplierCatalogClient(client)
		sources = append(sources, catalog.NewProductSource(cfg.Catalog.Remote.Name, supplier))

		if err := registry.Register(supplier); err != nil {
			return nil, err
		}
	}

	catalogSvc := app.NewCatalogService(app.CatalogServiceConfig{
		Sources:     sources,
		LoadTimeout: cfg.Catalog.LoadTimeout,
		Logger:      logger,
	})

	if _, err := catalogSvc.Refresh(context.Background()); err != nil {
		return nil, fmt.Errorf("initial refresh: %w", err)
	}

	if err := registry.Register(catalogSvc); err != nil {
		return nil, err
	}

	kv := opts.kv
	if kv == nil {
		kv = storage.NewMemoryStore()
	}

	pricing := app.NewPricingService(app.PricingServiceConfig{
		Catalog: catalogSvc,
		History: storage.NewHistoryRepository(kv, "it"),
		Logger:  logger,
	})

	text := export.NewTextExporter()

	srv := http.New(&cfg.Server, cfg.CORS, logger)
	http.SetupRouter(srv.Engine(), http.RouterConfig{
		Config: cfg,
		Flags:  ff,
		Health: handlers.NewHealthHandler(registry, handlers.NewBuildInfo(cfg.App.Name, "it", "", "")),
		Quotes: handlers.NewQuoteHandler(pricing, app.NewExportService(app.ExportServiceConfig{
			Pricing:     pricing,
			Exporters:   []ports.QuoteExporter{text, export.NewHTMLExporter(), export.NewPDFExporter(text)},
			History:     export.NewCSVHistoryExporter(time.UTC),
			Flags:       ff,
			CompanyName: cfg.Export.CompanyName,
			WhatsApp:    cfg.Export.WhatsAppNumber,
			Logger:      logger,
		})),
		Catalog: handlers.NewCatalogHandler(catalogSvc),
		Playbook: handlers.NewPlaybookHandler(app.NewPlaybookService(app.PlaybookServiceConfig{
			Catalog:   catalogSvc,
			Favorites: storage.NewFavoritesRepository(kv, "it"),
			Logger:    logger,
		})),
		Recommendations: handlers.NewRecommendationHandler(app.NewRecommendationService(app.RecommendationServiceConfig{
			Catalog: catalogSvc,
			Flags:   ff,
			Logger:  logger,
		})),
		Admin: handlers.NewAdminHandler(catalogSvc, app.NewIngestService(app.IngestServiceConfig{
			Store:     products,
			Refresher: catalogSvc,
			Logger:    logger,
		})),
	})

	return &harness{
		server:   httptest.NewServer(srv.Handler()),
		catalog:  catalogSvc,
		registry: registry,
		dir:      dir,
	}, nil
}

func (h *harness) URL() string { return h.server.URL }

func (h *harness) Close() {
	h.server.Close()
	_ = os.RemoveAll(h.dir)
}
