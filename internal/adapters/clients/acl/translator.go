package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ahmedtravel/playbook/internal/adapters/clients"
	"github.com/ahmedtravel/playbook/internal/domain"
)

// BaseAdapter holds the client and name every supplier adapter needs.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a base adapter for serviceName.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{client: client, serviceName: serviceName}
}

// ServiceName returns the supplier's configured name.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// getJSON fetches path and decodes a successful body into T. HTTP and
// decoding failures come back as domain errors.
func getJSON[T any](ctx context.Context, a *BaseAdapter, path, operation, entityID string) (T, error) {
	var out T

	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return out, MapHTTPError(nil, err, a.serviceName, operation, entityID)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return out, MapHTTPError(resp, nil, a.serviceName, operation, entityID)
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, domain.NewUnavailableError(a.serviceName, fmt.Sprintf("decoding %s: %v", operation, err))
	}

	return out, nil
}

// fieldProblems collects every bad field of one supplier record so a
// rejection names all of them at once.
type fieldProblems map[string]string

func (p fieldProblems) required(field, value string) {
	if value == "" {
		p[field] = "is required"
	}
}

func (p fieldProblems) nonNegative(field string, value float64) {
	if value < 0 {
		p[field] = "must be at least 0"
	}
}

// err returns nil when the record is clean.
func (p fieldProblems) err(record string) error {
	if len(p) == 0 {
		return nil
	}

	return &domain.RecordValidationError{Record: record, Fields: p}
}

// translateEach translates items in order and stops at the first bad one.
func translateEach[E, D any](items []E, translate func(*E) (D, error)) ([]D, error) {
	out := make([]D, 0, len(items))

	for i := range items {
		d, err := translate(&items[i])
		if err != nil {
			return nil, fmt.Errorf("supplier record %d: %w", i, err)
		}

		out = append(out, d)
	}

	return out, nil
}
