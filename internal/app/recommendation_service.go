package app

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// RecommendationService dispatches criteria to a named recommendation
// strategy.
type RecommendationService struct {
	catalog         CatalogReader
	strategies      map[string]domain.Recommender
	defaultStrategy string
	flags           ports.FeatureFlags
	logger          *slog.Logger
}

// RecommendationServiceConfig contains configuration for the recommendation
// service.
type RecommendationServiceConfig struct {
	Catalog    CatalogReader
	Strategies []domain.Recommender

	// DefaultStrategy is used when the request names none and no flag
	// overrides it. Empty means "match the criteria".
	DefaultStrategy string

	// Flags may be nil.
	Flags  ports.FeatureFlags
	Logger *slog.Logger
}

// NewRecommendationService creates the service. With no strategies given it
// registers the structured and default freeform strategies.
func NewRecommendationService(cfg RecommendationServiceConfig) *RecommendationService {
	if cfg.Catalog == nil {
		panic("recommendation service requires a catalog")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	strategies := cfg.Strategies
	if len(strategies) == 0 {
		strategies = []domain.Recommender{
			domain.NewStructuredStrategy(),
			domain.NewFreeformStrategy(domain.FreeformConfig{}),
		}
	}

	byName := make(map[string]domain.Recommender, len(strategies))
	for _, r := range strategies {
		byName[r.Name()] = r
	}

	return &RecommendationService{
		catalog:         cfg.Catalog,
		strategies:      byName,
		defaultStrategy: cfg.DefaultStrategy,
		flags:           cfg.Flags,
		logger:          logger.With(slog.String("component", "app.RecommendationService")),
	}
}

// Strategies lists the registered strategy names, sorted.
func (s *RecommendationService) Strategies() []string {
	names := make([]string, 0, len(s.strategies))
	for name := range s.strategies {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Questions returns the structured quiz.
func (s *RecommendationService) Questions() []domain.Question {
	return domain.Questions()
}

// Recommend ranks the catalog with strategy. An empty strategy resolves to
// the flag override, then the configured default, then the strategy that
// matches the criteria variant.
func (s *RecommendationService) Recommend(
	ctx context.Context,
	strategy string,
	criteria domain.Criteria,
) (domain.Recommendation, error) {
	if criteria == nil {
		return domain.Recommendation{}, domain.NewValidationError("criteria", "answers or text is required")
	}

	name := s.resolve(ctx, strategy, criteria)

	r, ok := s.strategies[name]
	if !ok {
		return domain.Recommendation{}, domain.NewValidationErrorWithValue("strategy", "unknown strategy", name)
	}

	rec, err := r.Recommend(s.catalog.Catalog(), criteria)
	if err != nil {
		return domain.Recommendation{}, err
	}

	recommendationsServed.WithLabelValues(name).Inc()
	requestLogger(ctx, s.logger).DebugContext(ctx, "recommendation served",
		slog.String("strategy", name),
		slog.Int("tours", len(rec.Tours)),
		slog.Int("combos", len(rec.Combos)),
	)

	return rec, nil
}

func (s *RecommendationService) resolve(ctx context.Context, strategy string, criteria domain.Criteria) string {
	if strategy != "" {
		return strategy
	}

	name := s.defaultStrategy
	if s.flags != nil {
		name = s.flags.GetString(ctx, ports.FlagRecommenderStrategy, name)
	}

	if name == "" {
		name = domain.StrategyFor(criteria)
	}

	return name
}
