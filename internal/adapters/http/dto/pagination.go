package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page size bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor is returned for a cursor this service did not issue.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest is the cursor/limit query pair.
type PaginationRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit applies the default and the upper bound.
func (p PaginationRequest) GetLimit() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// CursorData is the position after which the next page starts. ID is the
// last item served; Offset is the fallback when that item no longer exists,
// as happens after a catalog refresh.
type CursorData struct {
	Offset int    `json:"o"`
	ID     string `json:"id"`
}

// EncodeCursor renders data as an opaque token.
func EncodeCursor(data CursorData) string {
	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token from EncodeCursor.
func DecodeCursor(encoded string) (CursorData, error) {
	var data CursorData

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return data, ErrInvalidCursor
	}

	if err := json.Unmarshal(raw, &data); err != nil || data.Offset < 0 {
		return CursorData{}, ErrInvalidCursor
	}

	return data, nil
}

// Page is one slice of a list.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// Paginate cuts the page that req asks for out of items. id names an item
// for the cursor.
func Paginate[T any](items []T, req PaginationRequest, id func(T) string) (*Page[T], error) {
	start := 0

	if req.Cursor != "" {
		cur, err := DecodeCursor(req.Cursor)
		if err != nil {
			return nil, err
		}

		start = cur.Offset

		for i, item := range items {
			if id(item) == cur.ID {
				start = i + 1
				break
			}
		}
	}

	if start > len(items) {
		start = len(items)
	}

	end := min(start+req.GetLimit(), len(items))

	page := &Page[T]{Items: items[start:end], HasMore: end < len(items)}
	if page.HasMore && end > start {
		page.NextCursor = EncodeCursor(CursorData{Offset: end, ID: id(items[end-1])})
	}

	return page, nil
}
