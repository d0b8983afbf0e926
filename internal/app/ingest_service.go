package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// Refresher rebuilds the catalog snapshot after the product store changes.
type Refresher interface {
	Refresh(ctx context.Context) (*RefreshResult, error)
}

// IngestService writes supplier product batches to the product store.
type IngestService struct {
	store     ports.ProductStore
	refresher Refresher
	logger    *slog.Logger
}

// IngestServiceConfig contains configuration for the ingest service.
type IngestServiceConfig struct {
	Store ports.ProductStore

	// Refresher may be nil, as it is for the CLI.
	Refresher Refresher
	Logger    *slog.Logger
}

// IngestResult reports a completed ingestion.
type IngestResult struct {
	Written        int      `json:"written"`
	ProductIDs     []string `json:"productIds"`
	BackupsRemoved int      `json:"backupsRemoved"`
	Refreshed      bool     `json:"catalogRefreshed"`
}

type ingestVerified struct {
	written int
	ids     []string
	removed int
}

// NewIngestService creates an ingest service.
func NewIngestService(cfg IngestServiceConfig) *IngestService {
	if cfg.Store == nil {
		panic("ingest service requires a product store")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &IngestService{
		store:     cfg.Store,
		refresher: cfg.Refresher,
		logger:    logger.With(slog.String("component", "app.IngestService")),
	}
}

// Ingest validates the whole batch, upserts it, re-reads the store to
// confirm every product landed, prunes old backups and refreshes the
// catalog. A refresh failure is logged but does not fail the ingestion.
func (s *IngestService) Ingest(ctx context.Context, products []domain.Product) (*IngestResult, error) {
	pipeline := Pipeline[[]domain.Product, int, *ingestVerified, *IngestResult]{
		Name: "ingest_products",
		Validate: func(_ context.Context, batch []domain.Product) error {
			if len(batch) == 0 {
				return domain.NewValidationError("products", "batch is empty")
			}

			return s.store.Validate(batch)
		},
		Perform: func(ctx context.Context, batch []domain.Product) (int, error) {
			return s.store.Upsert(ctx, batch)
		},
		Verify: s.verify,
		Archive: func(ctx context.Context, _ []domain.Product, v *ingestVerified) error {
			removed, err := s.store.CleanupBackups(ctx)
			if err != nil {
				return fmt.Errorf("pruning backups: %w", err)
			}

			v.removed = removed

			return nil
		},
		Respond: func(ctx context.Context, _ []domain.Product, v *ingestVerified) (*IngestResult, error) {
			productsIngested.Add(float64(v.written))

			result := &IngestResult{Written: v.written, ProductIDs: v.ids, BackupsRemoved: v.removed}

			if s.refresher != nil {
				_, err := s.refresher.Refresh(ctx)
				if err != nil {
					requestLogger(ctx, s.logger).WarnContext(ctx, "catalog refresh after ingest failed",
						slog.Any("error", err),
					)
				} else {
					result.Refreshed = true
				}
			}

			return result, nil
		},
	}

	return Run(ctx, s.logger, pipeline, products)
}

func (s *IngestService) verify(ctx context.Context, batch []domain.Product, written int) (*ingestVerified, error) {
	stored, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("re-reading product store: %w", err)
	}

	present := make(map[string]struct{}, len(stored))
	for _, p := range stored {
		present[p.ProductID] = struct{}{}
	}

	ids := make([]string, 0, len(batch))
	seen := make(map[string]struct{}, len(batch))

	for _, p := range batch {
		if _, ok := present[p.ProductID]; !ok {
			return nil, fmt.Errorf("product %q missing after write", p.ProductID)
		}

		if _, dup := seen[p.ProductID]; !dup {
			seen[p.ProductID] = struct{}{}
			ids = append(ids, p.ProductID)
		}
	}

	return &ingestVerified{written: written, ids: ids}, nil
}

// Stats summarises the product store.
func (s *IngestService) Stats(ctx context.Context) (*ports.ProductStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading product stats: %w", err)
	}

	return stats, nil
}

// Backup snapshots the product store and returns the backup path.
func (s *IngestService) Backup(ctx context.Context) (string, error) {
	path, err := s.store.Backup(ctx)
	if err != nil {
		return "", fmt.Errorf("backing up products: %w", err)
	}

	return path, nil
}
