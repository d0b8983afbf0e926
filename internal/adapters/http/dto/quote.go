package dto

import (
	"strings"

	"github.com/ahmedtravel/playbook/internal/app"
	"github.com/ahmedtravel/playbook/internal/domain"
)

// QuoteRequest is the calculator input. Guests outside 1..500 are clamped,
// not rejected, and an unknown vehicle or zone answers 404.
type QuoteRequest struct {
	Vehicle     string   `json:"vehicle"     validate:"required,notblank"`
	Zone        int      `json:"zone"`
	TourType    string   `json:"tourType"    validate:"required,tourtype"`
	Guests      int      `json:"guests"`
	Attractions []string `json:"attractions" validate:"omitempty,max=50,dive,notblank"`
}

// ToDomain converts the request for the pricing service.
func (r QuoteRequest) ToDomain() domain.QuoteRequest {
	ids := make([]string, 0, len(r.Attractions))
	for _, id := range r.Attractions {
		ids = append(ids, strings.TrimSpace(id))
	}

	return domain.QuoteRequest{
		Vehicle:     strings.TrimSpace(r.Vehicle),
		Zone:        r.Zone,
		TourType:    domain.TourType(r.TourType),
		Guests:      r.Guests,
		Attractions: ids,
	}
}

// ExportQuery selects the rendering of POST /quotes/export.
type ExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=text html pdf TEXT HTML PDF"`
}

// GetFormat defaults to the WhatsApp text layout.
func (q ExportQuery) GetFormat() string {
	if q.Format == "" {
		return "text"
	}

	return strings.ToLower(q.Format)
}

// AttractionLine is an attraction priced into a quote.
type AttractionLine struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SellPrice int    `json:"sellPrice"`
}

// QuoteResponse is a priced quote in whole AED.
type QuoteResponse struct {
	TourType        string           `json:"tourType"`
	TourLabel       string           `json:"tourLabel"`
	Vehicle         string           `json:"vehicle"`
	Zone            int              `json:"zone"`
	ZoneName        string           `json:"zoneName"`
	Guests          int              `json:"guests"`
	Attractions     []AttractionLine `json:"attractions"`
	VehicleRate     int              `json:"vehicleRate"`
	PickupRate      int              `json:"pickupRate"`
	AttractionsCost int              `json:"attractionsCost"`
	Total           int              `json:"total"`
	PerPerson       int              `json:"perPerson"`
}

// NewQuoteResponse maps a domain quote.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	lines := make([]AttractionLine, len(q.Attractions))
	for i, a := range q.Attractions {
		lines[i] = AttractionLine{ID: a.ID, Name: a.Name, SellPrice: a.SellPrice}
	}

	return QuoteResponse{
		TourType:        string(q.TourType),
		TourLabel:       q.TourType.Label(),
		Vehicle:         q.Vehicle,
		Zone:            q.Zone,
		ZoneName:        q.ZoneName,
		Guests:          q.Guests,
		Attractions:     lines,
		VehicleRate:     q.VehicleRate,
		PickupRate:      q.PickupRate,
		AttractionsCost: q.AttractionsCost,
		Total:           q.Total,
		PerPerson:       q.PerPerson,
	}
}

// RecentQuoteResponse is one history entry. Timestamp is unix milliseconds.
type RecentQuoteResponse struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	TourType  string `json:"tourType"`
	TourLabel string `json:"tourLabel"`
	Vehicle   string `json:"vehicle"`
	Zone      int    `json:"zone"`
	Guests    int    `json:"guests"`
	Total     int    `json:"total"`
	PerPerson int    `json:"perPerson"`
}

// NewRecentQuoteResponse maps a history entry.
func NewRecentQuoteResponse(r domain.RecentQuote) RecentQuoteResponse {
	return RecentQuoteResponse{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		TourType:  string(r.TourType),
		TourLabel: r.TourType.Label(),
		Vehicle:   r.Vehicle,
		Zone:      r.Zone,
		Guests:    r.Guests,
		Total:     r.Total,
		PerPerson: r.PerPerson,
	}
}

// NewRecentQuotesResponse maps a history list, never returning nil.
func NewRecentQuotesResponse(list []domain.RecentQuote) []RecentQuoteResponse {
	out := make([]RecentQuoteResponse, len(list))
	for i, r := range list {
		out[i] = NewRecentQuoteResponse(r)
	}

	return out
}

// SavedQuoteResponse answers POST /quotes/recent. Persisted is false when the
// history store was unavailable.
type SavedQuoteResponse struct {
	Quote     QuoteResponse       `json:"quote"`
	Record    RecentQuoteResponse `json:"record"`
	Persisted bool                `json:"persisted"`
}

// NewSavedQuoteResponse maps a save outcome.
func NewSavedQuoteResponse(s *app.SavedQuote) SavedQuoteResponse {
	return SavedQuoteResponse{
		Quote:     NewQuoteResponse(s.Quote),
		Record:    NewRecentQuoteResponse(s.Record),
		Persisted: s.Persisted,
	}
}

// FormatsResponse lists the enabled export formats.
type FormatsResponse struct {
	Formats []string `json:"formats"`
}
