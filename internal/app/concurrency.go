package app

import (
	"context"
	"sync"
	"time"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// sourceLoad is one source's contribution to a refresh.
type sourceLoad struct {
	source  ports.CatalogSource
	catalog *domain.Catalog
	err     error
	took    time.Duration
}

// loadSources loads every source in its own goroutine and waits for all of
// them. A failing source does not cancel the others; the caller decides
// which failures matter. Results keep the order of sources.
func loadSources(ctx context.Context, sources []ports.CatalogSource) []sourceLoad {
	loads := make([]sourceLoad, len(sources))

	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Go(func() {
			start := time.Now()
			c, err := src.Load(ctx)

			loads[i] = sourceLoad{source: src, catalog: c, err: err, took: time.Since(start)}
			sourceLoadSeconds.WithLabelValues(src.Name()).Observe(loads[i].took.Seconds())
		})
	}

	wg.Wait()

	return loads
}
