package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedtravel/playbook/internal/domain"
)

func TestReferenceSource_Load(t *testing.T) {
	src := NewReferenceSource()

	assert.Equal(t, "reference", src.Name())
	assert.True(t, src.Required())

	c, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, c.Tours, 6)
	assert.Len(t, c.Vehicles, 6)
	assert.Len(t, c.Zones, 4)
	assert.Len(t, c.Attractions, 7)
	assert.Len(t, c.Combos, 4)
	assert.Len(t, c.Scripts, 8)
	assert.Len(t, c.Objections, 8)
	assert.Len(t, c.SOPRules, 6)
	assert.Len(t, c.CheatCodes, 4)

	for _, tour := range c.Tours {
		assert.True(t, tour.Category.Valid(), "tour %s", tour.ID)
	}
}

func TestReferenceSource_FieldMapping(t *testing.T) {
	c, err := NewReferenceSource().Load(context.Background())
	require.NoError(t, err)

	tour, ok := c.Tour("dubai-full-day")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryDubai, tour.Category)
	assert.Equal(t, domain.MarginTier("medium"), tour.Margin)
	assert.Contains(t, tour.Highlights, "Museum of the Future")
	assert.NotEmpty(t, tour.ProTip)

	zone, ok := c.Zone(2)
	require.True(t, ok)
	assert.Equal(t, "Central Dubai", zone.Name)
	assert.Equal(t, 120, zone.RateFor(domain.Seater7))
	assert.Equal(t, 585, zone.RateFor(domain.Seater50))

	v, ok := c.Vehicle("7 seater (standard)")
	require.True(t, ok)
	assert.Equal(t, 7, v.Capacity)
	assert.Equal(t, 585, v.FullDayDubai)
}

func TestReferenceSource_PricesAQuote(t *testing.T) {
	c, err := NewReferenceSource().Load(context.Background())
	require.NoError(t, err)

	q, ok := domain.CalculateQuote(c, domain.QuoteRequest{
		Vehicle:  "7 Seater (Standard)",
		Zone:     2,
		TourType: domain.TourFullDubai,
		Guests:   4,
	})
	require.True(t, ok)

	assert.Equal(t, 705, q.Total)
	assert.Equal(t, 177, q.PerPerson)
}

func TestReferenceSource_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "malformed yaml",
			data: "tours: [unterminated",
		},
		{
			name: "unknown tour category",
			data: "tours:\n  - id: x\n    name: X\n    category: moon\n",
		},
		{
			name: "vehicle without capacity",
			data: "vehicles:\n  - vehicle: Bike\n    capacity: 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReferenceSourceFromBytes([]byte(tt.data)).Load(context.Background())
			assert.Error(t, err)
		})
	}
}
