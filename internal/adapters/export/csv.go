package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/ports"
)

var csvHeader = []string{
	"id", "saved_at", "tour_type", "service", "vehicle", "zone", "guests", "total_aed", "per_person_aed",
}

// CSVHistoryExporter writes the recent-quotes list as CSV.
type CSVHistoryExporter struct {
	loc *time.Location
}

var _ ports.HistoryExporter = (*CSVHistoryExporter)(nil)

// NewCSVHistoryExporter formats timestamps in loc, or UTC when nil.
func NewCSVHistoryExporter(loc *time.Location) *CSVHistoryExporter {
	if loc == nil {
		loc = time.UTC
	}

	return &CSVHistoryExporter{loc: loc}
}

func (e *CSVHistoryExporter) ContentType() string { return "text/csv; charset=utf-8" }

// WriteHistory writes a header row and one row per quote, in list order.
func (e *CSVHistoryExporter) WriteHistory(w io.Writer, quotes []domain.RecentQuote) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, q := range quotes {
		err := cw.Write([]string{
			q.ID,
			time.UnixMilli(q.Timestamp).In(e.loc).Format(time.RFC3339),
			string(q.TourType),
			q.TourType.Label(),
			q.Vehicle,
			strconv.Itoa(q.Zone),
			strconv.Itoa(q.Guests),
			strconv.Itoa(q.Total),
			strconv.Itoa(q.PerPerson),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
