package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PricingTier is one supplier price point for a product.
type PricingTier struct {
	TierName      string  `json:"tier_name" validate:"required"`
	PriceAED      float64 `json:"price_aed" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
	ValidityStart string  `json:"validity_start,omitempty"`
	ValidityEnd   string  `json:"validity_end,omitempty"`
}

// Product is a supplier catalog record. It is the shared ingestion format for
// the product store, the supplier API and the catalogctl tool.
type Product struct {
	ProductID       string        `json:"product_id" validate:"required"`
	ProductName     string        `json:"product_name" validate:"required"`
	Pricing         []PricingTier `json:"pricing" validate:"dive"`
	Inclusions      []string      `json:"inclusions"`
	Active          *bool         `json:"active,omitempty"`
	SupplierName    string        `json:"supplier_name,omitempty"`
	DestinationCity string        `json:"destination_city,omitempty"`
	Category        string        `json:"category,omitempty"`
	DescShort       string        `json:"description_short,omitempty"`
	DescLong        string        `json:"description_long,omitempty"`
	DurationHours   *float64      `json:"duration_hours,omitempty"`
	Exclusions      []string      `json:"exclusions,omitempty"`
	BookingPolicy   string        `json:"booking_policy,omitempty"`
	SourceDocument  []string      `json:"source_document,omitempty"`
}

// DefaultCurrency is applied to pricing tiers that omit a currency.
const DefaultCurrency = "AED"

// IsActive reports whether the product is sellable. Products are active
// unless explicitly disabled.
func (p Product) IsActive() bool {
	return p.Active == nil || *p.Active
}

// Normalize fills defaults the supplier may omit.
func (p Product) Normalize() Product {
	if p.Active == nil {
		active := true
		p.Active = &active
	}

	if p.Inclusions == nil {
		p.Inclusions = []string{}
	}

	if p.Pricing == nil {
		p.Pricing = []PricingTier{}
	}

	pricing := make([]PricingTier, len(p.Pricing))
	for i, tier := range p.Pricing {
		if tier.Currency == "" {
			tier.Currency = DefaultCurrency
		}

		pricing[i] = tier
	}

	p.Pricing = pricing

	return p
}

// ProductCategory maps a free-form supplier category onto a tour category.
// The first matching keyword wins: adventure, desert, cruise, dubai, abu.
func ProductCategory(input string) Category {
	s := strings.ToLower(input)

	switch {
	case strings.Contains(s, "adventure"):
		return CategoryAdventure
	case strings.Contains(s, "desert"):
		return CategoryDesert
	case strings.Contains(s, "cruise"):
		return CategoryCruise
	case strings.Contains(s, "dubai"):
		return CategoryDubai
	case strings.Contains(s, "abu"):
		return CategoryAbuDhabi
	default:
		return CategoryExperience
	}
}

// ProductToTour turns a supplier product into a catalog tour. index is the
// product's position in its source and names the tour when the product has
// no id.
func ProductToTour(p Product, index int) Tour {
	t := Tour{
		ID:           p.ProductID,
		Name:         p.ProductName,
		Category:     ProductCategory(p.Category),
		Pickup:       p.DestinationCity,
		Duration:     "Approx 1–3 hrs",
		Highlights:   []string{},
		Inclusions:   append([]string{}, p.Inclusions...),
		Requirements: []string{},
		VisualCues:   []string{"🧭"},
		Margin:       MarginMedium,
		Difficulty:   DifficultyEasy,
		IdealFor:     []string{"Guests"},
		BestFor:      p.Category,
		Tags:         []string{},
	}

	if t.ID == "" {
		t.ID = fmt.Sprintf("catalog-%d", index)
	}

	if t.Name == "" {
		t.Name = "Catalog Product"
	}

	if t.Pickup == "" {
		t.Pickup = "UAE"
	}

	if p.DurationHours != nil && *p.DurationHours > 0 {
		t.Duration = formatNumber(*p.DurationHours) + " hrs"
	}

	if p.DescShort != "" {
		t.Highlights = []string{p.DescShort}
	}

	if p.Category != "" {
		t.IdealFor = []string{p.Category}
		t.Tags = []string{p.Category}
	}

	if len(p.Pricing) > 0 && p.Pricing[0].PriceAED > 0 {
		price := p.Pricing[0].PriceAED
		t.Note = "From AED " + formatNumber(price)
		t.PriceRange = &PriceRange{Min: price, Max: price}
	}

	return t
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
