package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateQuote_SevenSeaterFullDubai(t *testing.T) {
	q, ok := CalculateQuote(testCatalog(), QuoteRequest{
		Vehicle:  "7-Seater",
		Zone:     2,
		TourType: TourFullDubai,
		Guests:   4,
	})

	require.True(t, ok)
	assert.Equal(t, 720, q.VehicleRate)
	assert.Equal(t, 144, q.PickupRate)
	assert.Equal(t, 0, q.AttractionsCost)
	assert.Equal(t, 864, q.Total)
	assert.Equal(t, 216, q.PerPerson)
	assert.Equal(t, "Central Dubai", q.ZoneName)
}

func TestCalculateQuote_WithAttraction(t *testing.T) {
	q, ok := CalculateQuote(testCatalog(), QuoteRequest{
		Vehicle:     "7-Seater",
		Zone:        2,
		TourType:    TourFullDubai,
		Guests:      4,
		Attractions: []string{"burj"},
	})

	require.True(t, ok)
	assert.Equal(t, 636, q.AttractionsCost)
	assert.Equal(t, 1500, q.Total)
	assert.Equal(t, 375, q.PerPerson)
	require.Len(t, q.Attractions, 1)
	assert.Equal(t, "burj", q.Attractions[0].ID)
}

func TestCalculateQuote_UnknownAttractionContributesNothing(t *testing.T) {
	q, ok := CalculateQuote(testCatalog(), QuoteRequest{
		Vehicle:     "7-Seater",
		Zone:        2,
		TourType:    TourFullDubai,
		Guests:      4,
		Attractions: []string{"no-such-ticket", "burj", "burj"},
	})

	require.True(t, ok)
	assert.Equal(t, 636, q.AttractionsCost)
	assert.Len(t, q.Attractions, 1)
}

func TestCalculateQuote_NoQuote(t *testing.T) {
	tests := []struct {
		name string
		req  QuoteRequest
	}{
		{name: "unknown vehicle", req: QuoteRequest{Vehicle: "Bus", Zone: 2, TourType: TourFullDubai, Guests: 2}},
		{name: "empty vehicle", req: QuoteRequest{Zone: 2, TourType: TourFullDubai, Guests: 2}},
		{name: "unknown zone", req: QuoteRequest{Vehicle: "7-Seater", Zone: 7, TourType: TourFullDubai, Guests: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := CalculateQuote(testCatalog(), tt.req)
			assert.False(t, ok)
		})
	}
}

func TestCalculateQuote_ClampsGuests(t *testing.T) {
	tests := []struct {
		name   string
		guests int
		want   int
	}{
		{name: "zero", guests: 0, want: 1},
		{name: "negative", guests: -5, want: 1},
		{name: "in range", guests: 12, want: 12},
		{name: "too many", guests: 1000, want: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := CalculateQuote(testCatalog(), QuoteRequest{
				Vehicle: "7-Seater", Zone: 2, TourType: TourFullDubai, Guests: tt.guests,
			})

			require.True(t, ok)
			assert.Equal(t, tt.want, q.Guests)
			assert.GreaterOrEqual(t, q.PerPerson, 0)
		})
	}
}

func TestCalculateQuote_TourTypes(t *testing.T) {
	tests := []struct {
		tourType    TourType
		vehicleRate int
	}{
		{TourFullDubai, 720},
		{TourFullAbuDhabi, 800},
		{TourHalfDubai, 400},
		{TourTransfer, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.tourType), func(t *testing.T) {
			q, ok := CalculateQuote(testCatalog(), QuoteRequest{
				Vehicle: "7-Seater", Zone: 2, TourType: tt.tourType, Guests: 3,
			})

			require.True(t, ok)
			assert.Equal(t, tt.vehicleRate, q.VehicleRate)
			assert.Equal(t, tt.vehicleRate+144, q.Total)
			assert.Equal(t, (q.Total+2)/3, q.PerPerson)
		})
	}
}

func TestCalculateQuote_TotalInvariant(t *testing.T) {
	c := testCatalog()
	attractions := []string{"burj", "frame"}

	for _, v := range c.Vehicles {
		for _, z := range c.Zones {
			for _, tt := range TourTypes {
				for _, guests := range []int{1, 3, 7, 50} {
					q, ok := CalculateQuote(c, QuoteRequest{
						Vehicle: v.Vehicle, Zone: z.ID, TourType: tt, Guests: guests, Attractions: attractions,
					})
					require.True(t, ok)

					want := v.RateFor(tt) + z.RateFor(BucketForCapacity(v.Capacity)) + (159+75)*guests
					assert.Equal(t, want, q.Total)
					assert.Equal(t, (want+guests-1)/guests, q.PerPerson)
				}
			}
		}
	}
}

func TestBucketForCapacity(t *testing.T) {
	tests := []struct {
		capacity int
		want     CapacityBucket
	}{
		{1, Seater4}, {4, Seater4}, {5, Seater7}, {7, Seater7}, {8, Seater12}, {12, Seater12},
		{13, Seater22}, {22, Seater22}, {23, Seater35}, {35, Seater35}, {36, Seater50}, {80, Seater50},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketForCapacity(tt.capacity), "capacity %d", tt.capacity)
	}
}

func TestZoneRateFor_Fallback(t *testing.T) {
	c := testCatalog()

	zone2, _ := c.Zone(2)
	assert.Equal(t, 144, zone2.RateFor(Seater50), "missing bucket falls back to seater7")

	edge, _ := c.Zone(9)
	assert.Equal(t, 0, edge.RateFor(Seater50), "no seater7 either means zero")
	assert.Equal(t, 300, edge.RateFor(Seater12))
}

func TestTourTypeLabel(t *testing.T) {
	assert.Equal(t, "Full Day Dubai", TourFullDubai.Label())
	assert.Equal(t, "Full Day Abu Dhabi", TourFullAbuDhabi.Label())
	assert.Equal(t, "Half Day Dubai", TourHalfDubai.Label())
	assert.Equal(t, "One-Way Transfer (Drop-off)", TourTransfer.Label())
	assert.False(t, TourType("night-safari").Valid())
}

func TestAttractionMargin(t *testing.T) {
	assert.InDelta(t, 0.1875, Attraction{SellPrice: 1040, NetPrice: 845}.Margin(), 0.0001)
	assert.Zero(t, Attraction{}.Margin())
}
