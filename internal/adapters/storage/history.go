package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// quoteRecord is the stored shape of a recent quote.
type quoteRecord struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	TourType  string `json:"tourType"`
	Vehicle   string `json:"vehicle"`
	Zone      int    `json:"zone"`
	Guests    int    `json:"guests"`
	Total     int    `json:"total"`
	PerPerson int    `json:"perPerson"`
}

func toRecord(q domain.RecentQuote) quoteRecord {
	return quoteRecord{
		ID:        q.ID,
		Timestamp: q.Timestamp,
		TourType:  string(q.TourType),
		Vehicle:   q.Vehicle,
		Zone:      q.Zone,
		Guests:    q.Guests,
		Total:     q.Total,
		PerPerson: q.PerPerson,
	}
}

func (r quoteRecord) toDomain() domain.RecentQuote {
	return domain.RecentQuote{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		TourType:  domain.TourType(r.TourType),
		Vehicle:   r.Vehicle,
		Zone:      r.Zone,
		Guests:    r.Guests,
		Total:     r.Total,
		PerPerson: r.PerPerson,
	}
}

// HistoryRepository implements ports.QuoteHistory on a KeyValueStore.
type HistoryRepository struct {
	store  ports.KeyValueStore
	prefix string
}

var _ ports.QuoteHistory = (*HistoryRepository)(nil)

// NewHistoryRepository stores lists under keys starting with prefix.
func NewHistoryRepository(store ports.KeyValueStore, prefix string) *HistoryRepository {
	return &HistoryRepository{store: store, prefix: prefix}
}

// List returns owner's quotes, newest first.
func (r *HistoryRepository) List(ctx context.Context, owner string) ([]domain.RecentQuote, error) {
	raw, err := r.store.Get(ctx, r.key(owner))
	if err != nil {
		return nil, fmt.Errorf("reading recent quotes: %w", err)
	}

	quotes, err := decodeQuotes(raw)
	if err != nil {
		return nil, err
	}

	domain.SortRecentQuotes(quotes)

	return quotes, nil
}

// Add prepends q and evicts beyond domain.MaxRecentQuotes.
func (r *HistoryRepository) Add(ctx context.Context, owner string, q domain.RecentQuote) error {
	return r.update(ctx, owner, func(list []domain.RecentQuote) ([]domain.RecentQuote, error) {
		return domain.PushRecentQuote(list, q), nil
	})
}

// Remove deletes the quote with id. A missing id is a NotFoundError and
// leaves the list untouched.
func (r *HistoryRepository) Remove(ctx context.Context, owner, id string) error {
	return r.update(ctx, owner, func(list []domain.RecentQuote) ([]domain.RecentQuote, error) {
		out, found := domain.RemoveRecentQuote(list, id)
		if !found {
			return nil, domain.NewNotFoundError("recent quote", id)
		}

		return out, nil
	})
}

// Clear deletes owner's list.
func (r *HistoryRepository) Clear(ctx context.Context, owner string) error {
	if err := r.store.Delete(ctx, r.key(owner)); err != nil {
		return fmt.Errorf("clearing recent quotes: %w", err)
	}

	return nil
}

func (r *HistoryRepository) key(owner string) string {
	return namespacedKey(r.prefix, recentQuotesKey, owner)
}

func (r *HistoryRepository) update(ctx context.Context, owner string, fn func([]domain.RecentQuote) ([]domain.RecentQuote, error)) error {
	err := r.store.Update(ctx, r.key(owner), func(current []byte) ([]byte, error) {
		list, err := decodeQuotes(current)
		if err != nil {
			return nil, err
		}

		next, err := fn(list)
		if err != nil {
			return nil, err
		}

		return encodeQuotes(next)
	})
	if err != nil {
		return fmt.Errorf("updating recent quotes: %w", err)
	}

	return nil
}

func decodeQuotes(raw []byte) ([]domain.RecentQuote, error) {
	if len(raw) == 0 {
		return []domain.RecentQuote{}, nil
	}

	var records []quoteRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decoding recent quotes: %w", err)
	}

	quotes := make([]domain.RecentQuote, len(records))
	for i, rec := range records {
		quotes[i] = rec.toDomain()
	}

	return quotes, nil
}

func encodeQuotes(quotes []domain.RecentQuote) ([]byte, error) {
	records := make([]quoteRecord, len(quotes))
	for i, q := range quotes {
		records[i] = toRecord(q)
	}

	return json.Marshal(records)
}
