package acl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmedtravel/playbook/internal/adapters/clients"
	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/platform/logging"
)

const supplierProductsPath = "/products"

// supplierPricing is a price point as the supplier sends it.
type supplierPricing struct {
	TierName      string  `json:"tier_name"`
	PriceAED      float64 `json:"price_aed"`
	Currency      string  `json:"currency"`
	ValidityStart string  `json:"validity_start"`
	ValidityEnd   string  `json:"validity_end"`
}

// supplierProduct is the supplier's product record. It is never exposed
// outside this package.
type supplierProduct struct {
	ProductID       string            `json:"product_id"`
	ProductName     string            `json:"product_name"`
	Pricing         []supplierPricing `json:"pricing"`
	Inclusions      []string          `json:"inclusions"`
	Exclusions      []string          `json:"exclusions"`
	Active          *bool             `json:"active"`
	SupplierName    string            `json:"supplier_name"`
	DestinationCity string            `json:"destination_city"`
	Category        string            `json:"category"`
	DescShort       string            `json:"description_short"`
	DescLong        string            `json:"description_long"`
	DurationHours   *float64          `json:"duration_hours"`
	BookingPolicy   string            `json:"booking_policy"`
}

// SupplierCatalogClient reads products from the supplier catalog API.
// It satisfies catalog.ProductLoader and ports.OptionalChecker.
type SupplierCatalogClient struct {
	BaseAdapter
}

// NewSupplierCatalogClient creates a supplier catalog adapter.
func NewSupplierCatalogClient(client *clients.Client) *SupplierCatalogClient {
	return &SupplierCatalogClient{
		BaseAdapter: NewBaseAdapter(client, client.ServiceName()),
	}
}

// Load fetches and translates the full product list. A single bad record
// fails the whole load so a half-valid feed never replaces the catalog.
func (s *SupplierCatalogClient) Load(ctx context.Context) ([]domain.Product, error) {
	raw, err := getJSON[[]supplierProduct](ctx, &s.BaseAdapter, supplierProductsPath, "list products", "products")
	if err != nil {
		return nil, err
	}

	products, err := translateEach(raw, translateProduct)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).DebugContext(ctx, "supplier catalog loaded",
		slog.String("supplier", s.ServiceName()),
		slog.Int("products", len(products)),
	)

	return products, nil
}

// Name implements ports.HealthChecker.
func (s *SupplierCatalogClient) Name() string {
	return s.ServiceName()
}

// Check reports the supplier unavailable while its circuit is open.
func (s *SupplierCatalogClient) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if state := s.client.CircuitState(); state == clients.StateOpen {
		return domain.NewUnavailableError(s.ServiceName(), "circuit "+state.String())
	}

	return nil
}

// Optional implements ports.OptionalChecker. The embedded reference data
// keeps quoting alive without the supplier.
func (s *SupplierCatalogClient) Optional() bool { return true }

func translateProduct(ext *supplierProduct) (domain.Product, error) {
	id := strings.TrimSpace(ext.ProductID)

	problems := fieldProblems{}
	problems.required("product_id", id)
	problems.required("product_name", strings.TrimSpace(ext.ProductName))

	pricing := make([]domain.PricingTier, len(ext.Pricing))
	for i, tier := range ext.Pricing {
		problems.nonNegative(fmt.Sprintf("pricing[%d].price_aed", i), tier.PriceAED)

		pricing[i] = domain.PricingTier{
			TierName:      tier.TierName,
			PriceAED:      tier.PriceAED,
			Currency:      strings.ToUpper(tier.Currency),
			ValidityStart: tier.ValidityStart,
			ValidityEnd:   tier.ValidityEnd,
		}
	}

	if err := problems.err(id); err != nil {
		return domain.Product{}, err
	}

	p := domain.Product{
		ProductID:       id,
		ProductName:     strings.TrimSpace(ext.ProductName),
		Pricing:         pricing,
		Inclusions:      ext.Inclusions,
		Exclusions:      ext.Exclusions,
		Active:          ext.Active,
		SupplierName:    ext.SupplierName,
		DestinationCity: ext.DestinationCity,
		Category:        ext.Category,
		DescShort:       ext.DescShort,
		DescLong:        ext.DescLong,
		DurationHours:   ext.DurationHours,
		BookingPolicy:   ext.BookingPolicy,
	}

	return p.Normalize(), nil
}
