package domain

// MaxToursToCompare is the side-by-side comparison width.
const MaxToursToCompare = 3

// Comparison is an ordered selection of distinct tours.
type Comparison struct {
	selected []Tour
}

// NewComparison builds a comparison from tour ids, failing on the first id
// that Add rejects.
func NewComparison(c *Catalog, ids ...string) (*Comparison, error) {
	cmp := &Comparison{}

	for _, id := range ids {
		if err := cmp.Add(c, id); err != nil {
			return nil, err
		}
	}

	return cmp, nil
}

// Add appends the tour with id. Unknown ids, duplicates and a full
// comparison are rejected.
func (cmp *Comparison) Add(c *Catalog, id string) error {
	t, ok := c.Tour(id)
	if !ok {
		return NewNotFoundError("tour", id)
	}

	if cmp.Contains(id) {
		return NewConflictError("comparison", "tour "+id+" already selected")
	}

	if len(cmp.selected) >= MaxToursToCompare {
		return NewValidationErrorWithValue("ids", "at most 3 tours can be compared", id)
	}

	cmp.selected = append(cmp.selected, t)

	return nil
}

// Remove drops the tour with id if present.
func (cmp *Comparison) Remove(id string) {
	out := cmp.selected[:0]

	for _, t := range cmp.selected {
		if t.ID != id {
			out = append(out, t)
		}
	}

	cmp.selected = out
}

// Contains reports whether id is selected.
func (cmp *Comparison) Contains(id string) bool {
	for _, t := range cmp.selected {
		if t.ID == id {
			return true
		}
	}

	return false
}

// Selected returns the selected tours in insertion order.
func (cmp *Comparison) Selected() []Tour {
	return append([]Tour(nil), cmp.selected...)
}

// Available returns the catalog tours not yet selected.
func (cmp *Comparison) Available(c *Catalog) []Tour {
	var out []Tour

	for _, t := range c.Tours {
		if !cmp.Contains(t.ID) {
			out = append(out, t)
		}
	}

	return out
}
