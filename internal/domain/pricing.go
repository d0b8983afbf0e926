package domain

// TourType selects which vehicle day-rate applies to a quote.
type TourType string

// Tour types offered by the quote calculator.
const (
	TourFullDubai    TourType = "full-dubai"
	TourFullAbuDhabi TourType = "full-abudhabi"
	TourHalfDubai    TourType = "half-dubai"
	TourTransfer     TourType = "transfer"
)

// TourTypes lists the tour types in calculator order.
var TourTypes = []TourType{TourFullDubai, TourFullAbuDhabi, TourHalfDubai, TourTransfer}

// Valid reports whether t is a known tour type.
func (t TourType) Valid() bool {
	switch t {
	case TourFullDubai, TourFullAbuDhabi, TourHalfDubai, TourTransfer:
		return true
	}

	return false
}

// Label is the customer-facing service name used in exported quotes.
func (t TourType) Label() string {
	switch t {
	case TourFullAbuDhabi:
		return "Full Day Abu Dhabi"
	case TourHalfDubai:
		return "Half Day Dubai"
	case TourTransfer:
		return "One-Way Transfer (Drop-off)"
	default:
		return "Full Day Dubai"
	}
}

// Guest count bounds. Values outside are clamped, never rejected.
const (
	MinGuests = 1
	MaxGuests = 500
)

// ClampGuests forces n into [MinGuests, MaxGuests].
func ClampGuests(n int) int {
	if n < MinGuests {
		return MinGuests
	}

	if n > MaxGuests {
		return MaxGuests
	}

	return n
}

// CapacityBucket keys a zone's rate table by vehicle size.
type CapacityBucket string

// Capacity buckets.
const (
	Seater4  CapacityBucket = "seater4"
	Seater7  CapacityBucket = "seater7"
	Seater12 CapacityBucket = "seater12"
	Seater22 CapacityBucket = "seater22"
	Seater35 CapacityBucket = "seater35"
	Seater50 CapacityBucket = "seater50"
)

// CapacityBuckets lists buckets smallest first.
var CapacityBuckets = []CapacityBucket{Seater4, Seater7, Seater12, Seater22, Seater35, Seater50}

// BucketForCapacity picks the smallest bucket that seats capacity.
func BucketForCapacity(capacity int) CapacityBucket {
	switch {
	case capacity <= 4:
		return Seater4
	case capacity <= 7:
		return Seater7
	case capacity <= 12:
		return Seater12
	case capacity <= 22:
		return Seater22
	case capacity <= 35:
		return Seater35
	default:
		return Seater50
	}
}

// RateFor returns the zone's pickup rate for bucket, falling back to the
// 7-seater rate and then to 0.
func (z Zone) RateFor(bucket CapacityBucket) int {
	if r, ok := z.Rates[bucket]; ok {
		return r
	}

	return z.Rates[Seater7]
}

// RateFor returns the vehicle's day rate for a tour type. Transfers carry no
// vehicle charge; the zone rate covers them.
func (v VehicleRate) RateFor(t TourType) int {
	switch t {
	case TourFullDubai:
		return v.FullDayDubai
	case TourFullAbuDhabi:
		return v.FullDayAbuDhabi
	case TourHalfDubai:
		return v.HalfDayDubai
	default:
		return 0
	}
}

// QuoteRequest holds the five calculator inputs.
type QuoteRequest struct {
	Vehicle     string
	Zone        int
	TourType    TourType
	Guests      int
	Attractions []string
}

// Quote is a derived price breakdown. All amounts are whole AED.
type Quote struct {
	TourType    TourType
	Vehicle     string
	Zone        int
	ZoneName    string
	Guests      int
	Attractions []Attraction

	VehicleRate     int
	PickupRate      int
	AttractionsCost int
	Total           int
	PerPerson       int
}

// CalculateQuote prices req against the catalog. It reports false when the
// vehicle or zone is unknown, in which case no quote exists. Unknown
// attraction ids contribute nothing.
func CalculateQuote(c *Catalog, req QuoteRequest) (Quote, bool) {
	vehicle, ok := c.Vehicle(req.Vehicle)
	if !ok {
		return Quote{}, false
	}

	zone, ok := c.Zone(req.Zone)
	if !ok {
		return Quote{}, false
	}

	guests := ClampGuests(req.Guests)

	q := Quote{
		TourType:    req.TourType,
		Vehicle:     vehicle.Vehicle,
		Zone:        zone.ID,
		ZoneName:    zone.Name,
		Guests:      guests,
		VehicleRate: vehicle.RateFor(req.TourType),
		PickupRate:  zone.RateFor(BucketForCapacity(vehicle.Capacity)),
	}

	seen := make(map[string]struct{}, len(req.Attractions))

	for _, id := range req.Attractions {
		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}

		a, ok := c.Attraction(id)
		if !ok {
			continue
		}

		q.Attractions = append(q.Attractions, a)
		q.AttractionsCost += a.SellPrice * guests
	}

	q.Total = q.VehicleRate + q.PickupRate + q.AttractionsCost
	q.PerPerson = ceilDiv(q.Total, guests)

	return q, true
}

// ceilDiv divides rounding up; b is always positive here.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return a / b
	}

	return (a + b - 1) / b
}
