// Package export renders quotes for customers: the WhatsApp text block, a
// standalone HTML card, an A5 PDF with a WhatsApp QR code, and the
// recent-quotes CSV download.
package export

import (
	"embed"
	"fmt"
	"time"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const defaultCompany = "Ahmed Travel"

// quoteView is the template model shared by every quote format.
type quoteView struct {
	Company   string
	Reference string
	Issued    string
	Service   string
	Vehicle   string
	ZoneLabel string
	Guests    int

	ShowVehicleRate bool
	VehicleRate     int
	PickupRate      int
	AttractionsCost int
	Attractions     []string
	Total           int
	PerPerson       int
}

func newQuoteView(doc ports.QuoteDocument) quoteView {
	q := doc.Quote

	company := doc.CompanyName
	if company == "" {
		company = defaultCompany
	}

	zone := fmt.Sprintf("Zone %d", q.Zone)
	if q.ZoneName != "" {
		zone += " (" + q.ZoneName + ")"
	}

	names := make([]string, len(q.Attractions))
	for i, a := range q.Attractions {
		names[i] = a.Name
	}

	issued := ""
	if !doc.IssuedAt.IsZero() {
		issued = doc.IssuedAt.Format(time.DateOnly)
	}

	return quoteView{
		Company:         company,
		Reference:       doc.Reference,
		Issued:          issued,
		Service:         q.TourType.Label(),
		Vehicle:         q.Vehicle,
		ZoneLabel:       zone,
		Guests:          q.Guests,
		ShowVehicleRate: q.TourType != domain.TourTransfer,
		VehicleRate:     q.VehicleRate,
		PickupRate:      q.PickupRate,
		AttractionsCost: q.AttractionsCost,
		Attractions:     names,
		Total:           q.Total,
		PerPerson:       q.PerPerson,
	}
}
