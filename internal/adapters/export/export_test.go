package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

var issued = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func document(tourType domain.TourType, attractionsCost int) ports.QuoteDocument {
	q := domain.Quote{
		TourType:    tourType,
		Vehicle:     "7 Seater (Standard)",
		Zone:        2,
		ZoneName:    "Central Dubai",
		Guests:      4,
		VehicleRate: 585,
		PickupRate:  120,
	}

	if tourType == domain.TourTransfer {
		q.VehicleRate = 0
	}

	if attractionsCost > 0 {
		q.Attractions = []domain.Attraction{{ID: "frame", Name: "Dubai Frame", SellPrice: attractionsCost / 4}}
		q.AttractionsCost = attractionsCost
	}

	q.Total = q.VehicleRate + q.PickupRate + q.AttractionsCost
	q.PerPerson = (q.Total + q.Guests - 1) / q.Guests

	return ports.QuoteDocument{
		Quote:       q,
		Reference:   "AT-20261016-1A2B3C",
		IssuedAt:    issued,
		CompanyName: "Ahmed Travel",
		WhatsApp:    "971500000000",
	}
}

func TestTextExporter(t *testing.T) {
	tests := []struct {
		name        string
		doc         ports.QuoteDocument
		contains    []string
		notContains []string
	}{
		{
			name: "full day without attractions",
			doc:  document(domain.TourFullDubai, 0),
			contains: []string{
				"🌟 Ahmed Travel Quote",
				"📍 Service: Full Day Dubai",
				"🚐 Vehicle: 7 Seater (Standard)",
				"📍 Zone: Zone 2 (Central Dubai)",
				"👥 Guests: 4",
				"• Vehicle Rental: AED 585",
				"• Transfer/Logistics: AED 120",
				"✨ Total: AED 705",
				"👤 Per Person: AED 177",
			},
			notContains: []string{"Attractions"},
		},
		{
			name:        "transfer omits the vehicle rental line",
			doc:         document(domain.TourTransfer, 0),
			contains:    []string{"One-Way Transfer (Drop-off)", "• Transfer/Logistics: AED 120", "✨ Total: AED 120"},
			notContains: []string{"Vehicle Rental"},
		},
		{
			name:     "attractions line when charged",
			doc:      document(domain.TourHalfDubai, 200),
			contains: []string{"• Attractions: AED 200"},
		},
	}

	e := NewTextExporter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.Export(context.Background(), tt.doc)
			require.NoError(t, err)

			text := string(out)
			for _, s := range tt.contains {
				assert.Contains(t, text, s)
			}

			for _, s := range tt.notContains {
				assert.NotContains(t, text, s)
			}

			assert.True(t, strings.HasSuffix(text, "Thank you for choosing Ahmed Travel! ✈️"))
			assert.NotContains(t, text, "\n\n\n")
		})
	}
}

func TestTextExporter_DefaultCompany(t *testing.T) {
	doc := document(domain.TourFullDubai, 0)
	doc.CompanyName = ""

	out, err := NewTextExporter().Export(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "🌟 Ahmed Travel Quote"))
}

func TestTextExporter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTextExporter().Export(ctx, document(domain.TourFullDubai, 0))
	require.ErrorIs(t, err, context.Canceled)
}

func TestHTMLExporter(t *testing.T) {
	doc := document(domain.TourFullDubai, 200)
	doc.Quote.Vehicle = `<script>alert("x")</script>`

	e := NewHTMLExporter()
	out, err := e.Export(context.Background(), doc)
	require.NoError(t, err)

	html := string(out)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "AT-20261016-1A2B3C")
	for _, amount := range []string{"AED 585", "AED 120", "AED 200", "AED 905", "AED 227"} {
		assert.Contains(t, html, amount)
	}
	assert.Contains(t, html, "Dubai Frame")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Equal(t, "html", e.Format())
}

func TestPDFExporter(t *testing.T) {
	e := NewPDFExporter(nil)

	out, err := e.Export(context.Background(), document(domain.TourFullAbuDhabi, 200))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 1000)
	assert.Equal(t, "application/pdf", e.ContentType())
}

func TestWhatsAppLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/971500000000?text=Hi+there%21", WhatsAppLink("971500000000", "Hi there!"))
	assert.Equal(t, "https://wa.me/?text=x", WhatsAppLink("", "x"))
}

func TestCSVHistoryExporter(t *testing.T) {
	quotes := []domain.RecentQuote{
		{ID: "q-2", Timestamp: issued.UnixMilli(), TourType: domain.TourTransfer, Vehicle: "Bus, 50 Seater", Zone: 4, Guests: 40, Total: 585, PerPerson: 15},
		{ID: "q-1", Timestamp: issued.Add(-time.Hour).UnixMilli(), TourType: domain.TourFullDubai, Vehicle: "7 Seater (Standard)", Zone: 2, Guests: 4, Total: 705, PerPerson: 177},
	}

	var buf bytes.Buffer

	e := NewCSVHistoryExporter(nil)
	require.NoError(t, e.WriteHistory(&buf, quotes))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"q-2", "2026-10-16T09:30:00Z", "transfer", "One-Way Transfer (Drop-off)", "Bus, 50 Seater", "4", "40", "585", "15"}, rows[1])
	assert.Equal(t, "q-1", rows[2][0])
}

func TestCSVHistoryExporter_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewCSVHistoryExporter(nil).WriteHistory(&buf, nil))
	assert.Equal(t, strings.Join(csvHeader, ",")+"\n", buf.String())
}
