package domain

import (
	"sort"
	"time"
)

// MaxRecentQuotes caps the recent-quotes list; older entries are evicted.
const MaxRecentQuotes = 10

// RecentQuote is a saved summary of a calculated quote.
type RecentQuote struct {
	ID        string
	Timestamp int64 // unix milliseconds
	TourType  TourType
	Vehicle   string
	Zone      int
	Guests    int
	Total     int
	PerPerson int
}

// NewRecentQuote summarises q under id at the given time.
func NewRecentQuote(id string, at time.Time, q Quote) RecentQuote {
	return RecentQuote{
		ID:        id,
		Timestamp: at.UnixMilli(),
		TourType:  q.TourType,
		Vehicle:   q.Vehicle,
		Zone:      q.Zone,
		Guests:    q.Guests,
		Total:     q.Total,
		PerPerson: q.PerPerson,
	}
}

// SortRecentQuotes orders quotes newest first. Equal timestamps keep their
// relative order.
func SortRecentQuotes(quotes []RecentQuote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Timestamp > quotes[j].Timestamp
	})
}

// PushRecentQuote puts q at the head of list and evicts the oldest entries
// beyond MaxRecentQuotes. The input slice is not modified.
func PushRecentQuote(list []RecentQuote, q RecentQuote) []RecentQuote {
	out := make([]RecentQuote, 0, len(list)+1)
	out = append(out, q)
	out = append(out, list...)

	SortRecentQuotes(out)

	if len(out) > MaxRecentQuotes {
		out = out[:MaxRecentQuotes]
	}

	return out
}

// RemoveRecentQuote drops the quote with id, reporting whether it existed.
func RemoveRecentQuote(list []RecentQuote, id string) ([]RecentQuote, bool) {
	out := make([]RecentQuote, 0, len(list))
	found := false

	for _, q := range list {
		if q.ID == id {
			found = true
			continue
		}

		out = append(out, q)
	}

	return out, found
}
