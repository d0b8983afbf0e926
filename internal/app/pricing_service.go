package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// PricingService validates quote requests, runs the pricing engine and keeps
// the recent-quotes history.
type PricingService struct {
	catalog CatalogReader
	history ports.QuoteHistory
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// PricingServiceConfig contains configuration for the pricing service.
type PricingServiceConfig struct {
	Catalog CatalogReader

	// History may be nil, in which case quotes are never persisted.
	History ports.QuoteHistory
	Logger  *slog.Logger

	// Clock and IDs are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// SavedQuote is the outcome of saving a quote to history. Persisted is false
// when the history store failed; the quote itself is still valid.
type SavedQuote struct {
	Quote     domain.Quote
	Record    domain.RecentQuote
	Persisted bool
}

// NewPricingService creates a pricing service with the provided dependencies.
func NewPricingService(cfg PricingServiceConfig) *PricingService {
	if cfg.Catalog == nil {
		panic("pricing service requires a catalog")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &PricingService{
		catalog: cfg.Catalog,
		history: cfg.History,
		logger:  logger.With(slog.String("component", "app.PricingService")),
		now:     now,
		newID:   newID,
	}
}

// Quote prices req. An unknown tour type is a validation error; an unknown
// vehicle or zone is a not-found error naming the entity.
func (s *PricingService) Quote(ctx context.Context, req domain.QuoteRequest) (domain.Quote, error) {
	logger := s.loggerFor(ctx)

	if !req.TourType.Valid() {
		return domain.Quote{}, domain.NewValidationErrorWithValue("tourType", "unknown tour type", string(req.TourType))
	}

	if strings.TrimSpace(req.Vehicle) == "" {
		return domain.Quote{}, domain.NewValidationError("vehicle", "is required")
	}

	c := s.catalog.Catalog()

	q, ok := domain.CalculateQuote(c, req)
	if !ok {
		if _, found := c.Vehicle(req.Vehicle); !found {
			return domain.Quote{}, domain.NewNotFoundError("vehicle", req.Vehicle)
		}

		return domain.Quote{}, domain.NewNotFoundError("zone", strconv.Itoa(req.Zone))
	}

	quotesCalculated.WithLabelValues(string(q.TourType)).Inc()
	logger.DebugContext(ctx, "quote calculated",
		slog.String("tour_type", string(q.TourType)),
		slog.String("vehicle", q.Vehicle),
		slog.Int("zone", q.Zone),
		slog.Int("guests", q.Guests),
		slog.Int("total", q.Total),
	)

	return q, nil
}

// SaveQuote prices req and prepends it to owner's history. A history failure
// is logged and reported through Persisted; it never fails the call.
func (s *PricingService) SaveQuote(ctx context.Context, owner string, req domain.QuoteRequest) (*SavedQuote, error) {
	q, err := s.Quote(ctx, req)
	if err != nil {
		return nil, err
	}

	record := domain.NewRecentQuote(s.newID(), s.now(), q)
	saved := &SavedQuote{Quote: q, Record: record}

	if s.history == nil {
		return saved, nil
	}

	err = s.history.Add(ctx, owner, record)
	if err != nil {
		s.persistenceFailed(ctx, "add", err)

		return saved, nil
	}

	saved.Persisted = true

	return saved, nil
}

// Recent lists owner's history newest first. Store failures yield an empty
// list.
func (s *PricingService) Recent(ctx context.Context, owner string) []domain.RecentQuote {
	if s.history == nil {
		return []domain.RecentQuote{}
	}

	quotes, err := s.history.List(ctx, owner)
	if err != nil {
		s.persistenceFailed(ctx, "list", err)

		return []domain.RecentQuote{}
	}

	if quotes == nil {
		return []domain.RecentQuote{}
	}

	return quotes
}

// DeleteRecent removes one entry from owner's history.
func (s *PricingService) DeleteRecent(ctx context.Context, owner, id string) error {
	if s.history == nil {
		return domain.NewNotFoundError("recent quote", id)
	}

	err := s.history.Remove(ctx, owner, id)
	if err != nil {
		if !domain.IsNotFound(err) {
			s.persistenceFailed(ctx, "remove", err)
		}

		return fmt.Errorf("removing recent quote: %w", err)
	}

	return nil
}

// ClearRecent empties owner's history.
func (s *PricingService) ClearRecent(ctx context.Context, owner string) error {
	if s.history == nil {
		return nil
	}

	err := s.history.Clear(ctx, owner)
	if err != nil {
		s.persistenceFailed(ctx, "clear", err)

		return fmt.Errorf("clearing recent quotes: %w", err)
	}

	return nil
}

func (s *PricingService) persistenceFailed(ctx context.Context, op string, err error) {
	persistenceFailures.WithLabelValues("recent_quotes", op).Inc()
	s.loggerFor(ctx).WarnContext(ctx, "recent quotes store failed",
		slog.String("operation", op),
		slog.Any("error", err),
	)
}

func (s *PricingService) loggerFor(ctx context.Context) *slog.Logger {
	return requestLogger(ctx, s.logger)
}
