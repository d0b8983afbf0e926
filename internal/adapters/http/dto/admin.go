package dto

import (
	"time"

	"github.com/ahmedtravel/playbook/internal/ports"
)

// ProductStatsResponse summarises the product store.
type ProductStatsResponse struct {
	Total         int            `json:"total"`
	Active        int            `json:"active"`
	Inactive      int            `json:"inactive"`
	ByCategory    map[string]int `json:"byCategory"`
	ByDestination map[string]int `json:"byDestination"`
	BySupplier    map[string]int `json:"bySupplier"`
	LastUpdated   *time.Time     `json:"lastUpdated,omitempty"`
	SizeBytes     int64          `json:"sizeBytes"`
	Backups       int            `json:"backups"`
}

// NewProductStatsResponse maps store stats. A store that was never written
// has no LastUpdated.
func NewProductStatsResponse(s *ports.ProductStats) ProductStatsResponse {
	resp := ProductStatsResponse{
		Total:         s.Total,
		Active:        s.Active,
		Inactive:      s.Inactive,
		ByCategory:    nonNilMap(s.ByCategory),
		ByDestination: nonNilMap(s.ByDestination),
		BySupplier:    nonNilMap(s.BySupplier),
		SizeBytes:     s.SizeBytes,
		Backups:       s.Backups,
	}

	if !s.LastUpdated.IsZero() {
		t := s.LastUpdated.UTC()
		resp.LastUpdated = &t
	}

	return resp
}

func nonNilMap(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}

	return m
}
