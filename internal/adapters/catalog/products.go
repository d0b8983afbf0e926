package catalog

import (
	"context"
	"fmt"

	"github.com/ahmedtravel/playbook/internal/domain"
)

// ProductLoader reads supplier products from somewhere.
type ProductLoader interface {
	Load(ctx context.Context) ([]domain.Product, error)
}

// ProductSource exposes the active products of a loader as catalog tours.
// It is optional: a broken product feed must not take pricing down.
type ProductSource struct {
	name   string
	loader ProductLoader
}

// NewProductSource wraps loader as a catalog source called name.
func NewProductSource(name string, loader ProductLoader) *ProductSource {
	return &ProductSource{name: name, loader: loader}
}

// Name implements ports.CatalogSource.
func (s *ProductSource) Name() string { return s.name }

// Required implements ports.CatalogSource.
func (s *ProductSource) Required() bool { return false }

// Load implements ports.CatalogSource.
func (s *ProductSource) Load(ctx context.Context) (*domain.Catalog, error) {
	products, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading %s products: %w", s.name, err)
	}

	return &domain.Catalog{Tours: ProductTours(products)}, nil
}

// ProductTours maps the active products to tours. The index used for
// products without an id is the product's position in the input.
func ProductTours(products []domain.Product) []domain.Tour {
	tours := make([]domain.Tour, 0, len(products))

	for i, p := range products {
		if !p.IsActive() {
			continue
		}

		tours = append(tours, domain.ProductToTour(p, i))
	}

	return tours
}
