package dto

import (
	"math"
	"strings"

	"github.com/ahmedtravel/playbook/internal/domain"
)

// ToursQuery filters and pages GET /tours.
type ToursQuery struct {
	Category string `form:"category"`
	PaginationRequest
}

// CompareQuery is GET /tours/compare?ids=a,b,c. Repeated ids parameters are
// accepted too.
type CompareQuery struct {
	IDs []string `form:"ids" validate:"required,min=1"`
}

// TourIDs splits comma-joined values and drops blanks.
func (q CompareQuery) TourIDs() []string {
	var ids []string

	for _, v := range q.IDs {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	return ids
}

// PriceRangeResponse is an indicative AED band.
type PriceRangeResponse struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TourResponse is a tour card.
type TourResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Category      string              `json:"category"`
	CategoryLabel string              `json:"categoryLabel"`
	Pickup        string              `json:"pickup"`
	Duration      string              `json:"duration"`
	Highlights    []string            `json:"highlights"`
	Inclusions    []string            `json:"inclusions"`
	Requirements  []string            `json:"requirements,omitempty"`
	ProTip        string              `json:"proTip,omitempty"`
	Note          string              `json:"note,omitempty"`
	DressCode     string              `json:"dressCode,omitempty"`
	VisualCues    []string            `json:"visualCues,omitempty"`
	Margin        string              `json:"margin"`
	Difficulty    string              `json:"difficulty,omitempty"`
	IdealFor      []string            `json:"idealFor,omitempty"`
	PriceRange    *PriceRangeResponse `json:"priceRange,omitempty"`
	BestFor       string              `json:"bestFor,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	WaiverURL     string              `json:"waiverUrl,omitempty"`
}

// NewTourResponse maps a tour.
func NewTourResponse(t domain.Tour) TourResponse {
	resp := TourResponse{
		ID:            t.ID,
		Name:          t.Name,
		Category:      string(t.Category),
		CategoryLabel: t.Category.Label(),
		Pickup:        t.Pickup,
		Duration:      t.Duration,
		Highlights:    nonNil(t.Highlights),
		Inclusions:    nonNil(t.Inclusions),
		Requirements:  t.Requirements,
		ProTip:        t.ProTip,
		Note:          t.Note,
		DressCode:     t.DressCode,
		VisualCues:    t.VisualCues,
		Margin:        string(t.Margin),
		Difficulty:    string(t.Difficulty),
		IdealFor:      t.IdealFor,
		BestFor:       t.BestFor,
		Tags:          t.Tags,
		WaiverURL:     t.WaiverURL,
	}

	if t.PriceRange != nil {
		resp.PriceRange = &PriceRangeResponse{Min: t.PriceRange.Min, Max: t.PriceRange.Max}
	}

	return resp
}

// NewToursResponse maps a tour list.
func NewToursResponse(tours []domain.Tour) []TourResponse {
	out := make([]TourResponse, len(tours))
	for i, t := range tours {
		out[i] = NewTourResponse(t)
	}

	return out
}

// ComparisonResponse is a side-by-side selection and the tours that could
// still be added.
type ComparisonResponse struct {
	Tours     []TourResponse `json:"tours"`
	Available []TourSummary  `json:"available"`
	Full      bool           `json:"full"`
}

// TourSummary is a tour reduced to what a picker needs.
type TourSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// NewComparisonResponse maps a comparison against the catalog it was built
// from.
func NewComparisonResponse(cmp *domain.Comparison, c *domain.Catalog) ComparisonResponse {
	selected := cmp.Selected()

	resp := ComparisonResponse{
		Tours:     NewToursResponse(selected),
		Available: []TourSummary{},
		Full:      len(selected) >= domain.MaxToursToCompare,
	}

	if resp.Full {
		return resp
	}

	for _, t := range cmp.Available(c) {
		resp.Available = append(resp.Available, TourSummary{ID: t.ID, Name: t.Name, Category: string(t.Category)})
	}

	return resp
}

// CategoryResponse is a tour category with its heading and tour count.
type CategoryResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Tours int    `json:"tours"`
}

// NewCategoriesResponse lists every category in display order.
func NewCategoriesResponse(c *domain.Catalog) []CategoryResponse {
	out := make([]CategoryResponse, len(domain.Categories))
	for i, cat := range domain.Categories {
		out[i] = CategoryResponse{ID: string(cat), Label: cat.Label(), Tours: len(c.ToursByCategory(cat))}
	}

	return out
}

// VehicleResponse is a vehicle rate card.
type VehicleResponse struct {
	Vehicle         string `json:"vehicle"`
	Capacity        int    `json:"capacity"`
	FullDayDubai    int    `json:"fullDayDubai"`
	HalfDayDubai    int    `json:"halfDayDubai"`
	FullDayAbuDhabi int    `json:"fullDayAbuDhabi"`
	TransferDXB     int    `json:"transferDXB"`
}

// NewVehiclesResponse maps the vehicle rate cards.
func NewVehiclesResponse(vs []domain.VehicleRate) []VehicleResponse {
	out := make([]VehicleResponse, len(vs))
	for i, v := range vs {
		out[i] = VehicleResponse{
			Vehicle:         v.Vehicle,
			Capacity:        v.Capacity,
			FullDayDubai:    v.FullDayDubai,
			HalfDayDubai:    v.HalfDayDubai,
			FullDayAbuDhabi: v.FullDayAbuDhabi,
			TransferDXB:     v.TransferDXB,
		}
	}

	return out
}

// ZoneResponse is a pickup bracket. Rates are keyed by capacity bucket.
type ZoneResponse struct {
	Zone  int            `json:"zone"`
	Name  string         `json:"name"`
	Areas []string       `json:"areas"`
	Rates map[string]int `json:"rates"`
}

// NewZonesResponse maps the pickup brackets.
func NewZonesResponse(zs []domain.Zone) []ZoneResponse {
	out := make([]ZoneResponse, len(zs))
	for i, z := range zs {
		rates := make(map[string]int, len(z.Rates))
		for bucket, rate := range z.Rates {
			rates[string(bucket)] = rate
		}

		out[i] = ZoneResponse{Zone: z.ID, Name: z.Name, Areas: nonNil(z.Areas), Rates: rates}
	}

	return out
}

// AttractionResponse is an add-on ticket. MarginPercent is rounded.
type AttractionResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	SellPrice     int    `json:"sellPrice"`
	NetPrice      int    `json:"netPrice"`
	Category      string `json:"category"`
	MarginPercent int    `json:"marginPercent"`
}

// NewAttractionsResponse maps the attraction list.
func NewAttractionsResponse(as []domain.Attraction) []AttractionResponse {
	out := make([]AttractionResponse, len(as))
	for i, a := range as {
		out[i] = AttractionResponse{
			ID:            a.ID,
			Name:          a.Name,
			SellPrice:     a.SellPrice,
			NetPrice:      a.NetPrice,
			Category:      string(a.Category),
			MarginPercent: int(math.Round(a.Margin() * 100)),
		}
	}

	return out
}

// ComboResponse is a bundled package.
type ComboResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Items      []string `json:"items"`
	TotalPrice int      `json:"totalPrice"`
	Savings    string   `json:"savings,omitempty"`
	Tag        string   `json:"tag,omitempty"`
	IdealFor   []string `json:"idealFor,omitempty"`
	Margin     string   `json:"margin"`
}

// NewCombosResponse maps combo packages.
func NewCombosResponse(cs []domain.ComboPackage) []ComboResponse {
	out := make([]ComboResponse, len(cs))
	for i, p := range cs {
		out[i] = ComboResponse{
			ID:         p.ID,
			Name:       p.Name,
			Items:      nonNil(p.Items),
			TotalPrice: p.TotalPrice,
			Savings:    p.Savings,
			Tag:        p.Tag,
			IdealFor:   p.IdealFor,
			Margin:     string(p.Margin),
		}
	}

	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
