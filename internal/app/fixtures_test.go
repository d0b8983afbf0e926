package app

import (
	"io"
	"log/slog"

	"github.com/ahmedtravel/playbook/internal/domain"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticCatalog struct {
	c *domain.Catalog
}

func (s staticCatalog) Catalog() *domain.Catalog { return s.c }

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Vehicles: []domain.VehicleRate{
			{Vehicle: "7 Seater (Standard)", Capacity: 7, FullDayDubai: 585, HalfDayDubai: 310, FullDayAbuDhabi: 650, TransferDXB: 115},
		},
		Zones: []domain.Zone{
			{ID: 2, Name: "Central Dubai", Rates: map[domain.CapacityBucket]int{domain.Seater4: 120, domain.Seater7: 120}},
		},
		Attractions: []domain.Attraction{
			{ID: "frame", Name: "Dubai Frame", SellPrice: 75, NetPrice: 60, Category: domain.AttractionCulture},
		},
		Tours: []domain.Tour{
			{ID: "dubai-full-day", Name: "Dubai Full-Day Explore Tour", Category: domain.CategoryDubai, Margin: domain.MarginMedium},
			{ID: "desert-safari-sharing", Name: "Premium Desert Safari", Category: domain.CategoryDesert, Margin: domain.MarginMedium, Tags: []string{"thrill"}},
			{ID: "dhow-cruise-marina", Name: "Dhow Cruise Dubai Marina", Category: domain.CategoryCruise, Margin: domain.MarginMedium},
		},
		Scripts: []domain.WhatsAppScript{
			{ID: "price-doubt", Category: domain.ScriptPrice, Scenario: "Customer thinks it's expensive", Tags: []string{"price"}},
			{ID: "mosque-dress", Category: domain.ScriptCulture, Scenario: "Mosque dress code", Tags: []string{"culture"}},
		},
		Objections: []domain.ObjectionHandler{
			{ID: "too-expensive", Objection: "It's too expensive", Category: domain.ObjectionPrice, Severity: domain.SeverityCommon},
		},
		SOPRules: []domain.SOPRule{
			{ID: "no-show", Importance: "critical"},
			{ID: "dress-code", Importance: "important"},
		},
	}
}
