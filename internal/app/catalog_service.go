package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// ErrCatalogNotLoaded is returned by the health check before the first
// successful load.
var ErrCatalogNotLoaded = errors.New("catalog not loaded")

// CatalogReader exposes the current catalog snapshot.
type CatalogReader interface {
	Catalog() *domain.Catalog
}

// CatalogService merges the catalog sources into one immutable snapshot and
// swaps it atomically on refresh. Readers never block.
type CatalogService struct {
	sources     []ports.CatalogSource
	loadTimeout time.Duration
	logger      *slog.Logger

	snapshot atomic.Pointer[domain.Catalog]
	loadedAt atomic.Pointer[time.Time]
}

// CatalogServiceConfig contains configuration for the catalog service.
type CatalogServiceConfig struct {
	Sources []ports.CatalogSource

	// LoadTimeout bounds one refresh across all sources. Zero means no bound
	// beyond the caller's context.
	LoadTimeout time.Duration
	Logger      *slog.Logger
}

// SourceReport describes one source's part in a refresh.
type SourceReport struct {
	Name  string `json:"name"`
	Tours int    `json:"tours"`
	Error string `json:"error,omitempty"`
}

// RefreshResult summarises a refresh.
type RefreshResult struct {
	Tours    int            `json:"tours"`
	Sources  []SourceReport `json:"sources"`
	LoadedAt time.Time      `json:"loadedAt"`
}

// NewCatalogService creates a catalog service. It holds no snapshot until
// Refresh succeeds.
func NewCatalogService(cfg CatalogServiceConfig) *CatalogService {
	if len(cfg.Sources) == 0 {
		panic("catalog service requires at least one source")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CatalogService{
		sources:     cfg.Sources,
		loadTimeout: cfg.LoadTimeout,
		logger:      logger.With(slog.String("component", "app.CatalogService")),
	}
}

// Catalog returns the current snapshot, or an empty catalog before the first
// load.
func (s *CatalogService) Catalog() *domain.Catalog {
	if c := s.snapshot.Load(); c != nil {
		return c
	}

	return &domain.Catalog{}
}

// LoadedAt reports when the current snapshot was built.
func (s *CatalogService) LoadedAt() (time.Time, bool) {
	if t := s.loadedAt.Load(); t != nil {
		return *t, true
	}

	return time.Time{}, false
}

// Refresh loads every source concurrently and publishes the merged snapshot.
// Optional sources that fail are skipped. A failing required source aborts
// the refresh and the previous snapshot stays in place.
func (s *CatalogService) Refresh(ctx context.Context) (*RefreshResult, error) {
	logger := requestLogger(ctx, s.logger)

	if s.loadTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.loadTimeout)
		defer cancel()
	}

	loads := loadSources(ctx, s.sources)

	parts := make([]*domain.Catalog, 0, len(loads))
	reports := make([]SourceReport, 0, len(loads))

	for _, l := range loads {
		src := l.source
		report := SourceReport{Name: src.Name()}

		if l.err == nil && l.catalog == nil {
			l.err = fmt.Errorf("source %s returned no catalog", src.Name())
		}

		if l.err != nil {
			report.Error = l.err.Error()
			reports = append(reports, report)

			if src.Required() {
				catalogRefreshes.WithLabelValues("failed").Inc()
				logger.ErrorContext(ctx, "required catalog source failed",
					slog.String("source", src.Name()),
					slog.Any("error", l.err),
				)

				return nil, fmt.Errorf("loading catalog source %s: %w", src.Name(), l.err)
			}

			logger.WarnContext(ctx, "skipping catalog source",
				slog.String("source", src.Name()),
				slog.Duration("took", l.took),
				slog.Any("error", l.err),
			)

			continue
		}

		report.Tours = len(l.catalog.Tours)
		reports = append(reports, report)
		parts = append(parts, l.catalog)
	}

	merged := MergeCatalogs(parts...)
	now := time.Now()

	s.snapshot.Store(merged)
	s.loadedAt.Store(&now)
	catalogRefreshes.WithLabelValues("ok").Inc()

	logger.InfoContext(ctx, "catalog refreshed",
		slog.Int("tours", len(merged.Tours)),
		slog.Int("sources", len(parts)),
	)

	return &RefreshResult{Tours: len(merged.Tours), Sources: reports, LoadedAt: now}, nil
}

// Run refreshes the catalog every interval until ctx is canceled. Failures
// are logged and the previous snapshot is kept.
func (s *CatalogService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := s.Refresh(ctx)
			if err != nil && ctx.Err() == nil {
				s.logger.WarnContext(ctx, "scheduled catalog refresh failed", slog.Any("error", err))
			}
		}
	}
}

// Tours lists tours in a category, or every tour for an empty category.
func (s *CatalogService) Tours(_ context.Context, category string) ([]domain.Tour, error) {
	cat := domain.Category(category)
	if category != "" && !cat.Valid() {
		return nil, domain.NewValidationErrorWithValue("category", "unknown category", category)
	}

	tours := s.Catalog().ToursByCategory(cat)
	if tours == nil {
		tours = []domain.Tour{}
	}

	return tours, nil
}

// Tour finds one tour.
func (s *CatalogService) Tour(_ context.Context, id string) (domain.Tour, error) {
	t, ok := s.Catalog().Tour(id)
	if !ok {
		return domain.Tour{}, domain.NewNotFoundError("tour", id)
	}

	return t, nil
}

// Compare builds a side-by-side selection of up to three tours.
func (s *CatalogService) Compare(_ context.Context, ids []string) (*TourComparison, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("ids", "at least one tour id is required")
	}

	snapshot := s.Catalog()

	cmp, err := domain.NewComparison(snapshot, ids...)
	if err != nil {
		return nil, fmt.Errorf("comparing tours: %w", err)
	}

	return &TourComparison{Comparison: cmp, Catalog: snapshot}, nil
}

// TourComparison is a comparison together with the snapshot it was built
// from. Available tours must be listed from that same snapshot.
type TourComparison struct {
	*domain.Comparison
	Catalog *domain.Catalog
}

// Name implements ports.HealthChecker.
func (s *CatalogService) Name() string { return "catalog" }

// Check implements ports.HealthChecker. The catalog is healthy once a
// snapshot with at least one tour is published.
func (s *CatalogService) Check(_ context.Context) error {
	c := s.snapshot.Load()
	if c == nil {
		return ErrCatalogNotLoaded
	}

	if len(c.Tours) == 0 {
		return fmt.Errorf("%w: snapshot has no tours", ErrCatalogNotLoaded)
	}

	return nil
}

// MergeCatalogs combines partial catalogs in order. For every collection the
// first entry with a given key wins and later duplicates are dropped.
func MergeCatalogs(parts ...*domain.Catalog) *domain.Catalog {
	out := &domain.Catalog{}

	var (
		tours       = map[string]struct{}{}
		vehicles    = map[string]struct{}{}
		zones       = map[string]struct{}{}
		attractions = map[string]struct{}{}
		combos      = map[string]struct{}{}
		scripts     = map[string]struct{}{}
		objections  = map[string]struct{}{}
		rules       = map[string]struct{}{}
		codes       = map[string]struct{}{}
	)

	for _, p := range parts {
		if p == nil {
			continue
		}

		out.Tours = mergeUnique(out.Tours, tours, p.Tours, func(t domain.Tour) string { return t.ID })
		out.Vehicles = mergeUnique(out.Vehicles, vehicles, p.Vehicles, func(v domain.VehicleRate) string {
			return strings.ToLower(v.Vehicle)
		})
		out.Zones = mergeUnique(out.Zones, zones, p.Zones, func(z domain.Zone) string { return strconv.Itoa(z.ID) })
		out.Attractions = mergeUnique(out.Attractions, attractions, p.Attractions,
			func(a domain.Attraction) string { return a.ID })
		out.Combos = mergeUnique(out.Combos, combos, p.Combos, func(c domain.ComboPackage) string { return c.ID })
		out.Scripts = mergeUnique(out.Scripts, scripts, p.Scripts, func(s domain.WhatsAppScript) string { return s.ID })
		out.Objections = mergeUnique(out.Objections, objections, p.Objections,
			func(h domain.ObjectionHandler) string { return h.ID })
		out.SOPRules = mergeUnique(out.SOPRules, rules, p.SOPRules, func(r domain.SOPRule) string { return r.ID })
		out.CheatCodes = mergeUnique(out.CheatCodes, codes, p.CheatCodes, func(c domain.CheatCode) string { return c.ID })
	}

	return out
}

func mergeUnique[T any](dst []T, seen map[string]struct{}, items []T, key func(T) string) []T {
	for _, item := range items {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}

		seen[k] = struct{}{}
		dst = append(dst, item)
	}

	return dst
}
