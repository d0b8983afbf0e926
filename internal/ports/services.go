// Package ports defines the interfaces between the application core and
// its adapters. The app layer depends only on these; adapters implement them.
package ports

import (
	"context"
	"io"
	"time"

	"github.com/ahmedtravel/playbook/internal/domain"
)

// CatalogSource supplies some or all of the reference catalog. Sources are
// merged by the catalog service in registration order.
type CatalogSource interface {
	// Name identifies the source in logs and health output.
	Name() string

	// Required sources fail the whole load when they fail.
	Required() bool

	// Load returns the source's slice of the catalog. Sources that only know
	// tours leave the other collections empty.
	Load(ctx context.Context) (*domain.Catalog, error)
}

// KeyValueStore is a byte-oriented store for small serialized lists.
// Implementations must serialize Update calls on the same key.
type KeyValueStore interface {
	// Get returns nil without error when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Update reads key, passes its value (nil if absent) to fn and stores the
	// result. A nil result deletes the key. An error from fn aborts the update.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error

	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// QuoteHistory is the capped recent-quotes list. owner scopes the list to
// one agent; an empty owner is the shared list.
type QuoteHistory interface {
	List(ctx context.Context, owner string) ([]domain.RecentQuote, error)
	Add(ctx context.Context, owner string, q domain.RecentQuote) error
	Remove(ctx context.Context, owner, id string) error
	Clear(ctx context.Context, owner string) error
}

// FavoriteScripts is the set of favorited WhatsApp script ids.
type FavoriteScripts interface {
	List(ctx context.Context, owner string) ([]string, error)
	Contains(ctx context.Context, owner, scriptID string) (bool, error)
	// Toggle flips membership and returns the new state.
	Toggle(ctx context.Context, owner, scriptID string) (bool, error)
	// Add is a no-op when the id is already present.
	Add(ctx context.Context, owner, scriptID string) error
	Remove(ctx context.Context, owner, scriptID string) error
	Clear(ctx context.Context, owner string) error
	Count(ctx context.Context, owner string) (int, error)
}

// QuoteDocument is everything an exporter needs to render one quote.
type QuoteDocument struct {
	Quote       domain.Quote
	Reference   string
	IssuedAt    time.Time
	CompanyName string
	WhatsApp    string
}

// QuoteExporter renders a quote in one format.
type QuoteExporter interface {
	Format() string
	ContentType() string
	Export(ctx context.Context, doc QuoteDocument) ([]byte, error)
}

// HistoryExporter writes the recent-quotes list as a tabular download.
type HistoryExporter interface {
	ContentType() string
	WriteHistory(w io.Writer, quotes []domain.RecentQuote) error
}

// ProductStats summarises the product store.
type ProductStats struct {
	Total         int
	Active        int
	Inactive      int
	ByCategory    map[string]int
	ByDestination map[string]int
	BySupplier    map[string]int
	LastUpdated   time.Time
	SizeBytes     int64
	Backups       int
}

// ProductStore persists supplier products.
type ProductStore interface {
	// Validate checks the whole batch and reports the first bad record.
	Validate(products []domain.Product) error
	// Upsert validates the batch, then writes it replacing products with
	// the same id. It returns the number of products written.
	Upsert(ctx context.Context, products []domain.Product) (int, error)
	Load(ctx context.Context) ([]domain.Product, error)
	Stats(ctx context.Context) (*ProductStats, error)
	Backup(ctx context.Context) (string, error)
	CleanupBackups(ctx context.Context) (int, error)
}
