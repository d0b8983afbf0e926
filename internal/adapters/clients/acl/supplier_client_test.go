package acl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedtravel/playbook/internal/adapters/clients"
	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/platform/config"
)

func supplierClient(t *testing.T, handler http.HandlerFunc) *SupplierCatalogClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := clients.New(&clients.Config{
		ServiceName: "supplier-catalog",
		BaseURL:     srv.URL,
		Timeout:     2 * time.Second,
		Retry:       config.RetryConfig{MaxAttempts: 1},
		Circuit:     config.CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Minute, HalfOpenLimit: 1},
	})
	require.NoError(t, err)

	return NewSupplierCatalogClient(client)
}

func TestSupplierCatalogClient_Load(t *testing.T) {
	var path string

	s := supplierClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"product_id":" dhow-1 ","product_name":"Dhow Cruise Marina","category":"Cruise",
			 "pricing":[{"tier_name":"Adult","price_aed":250,"currency":"aed"}],"duration_hours":2},
			{"product_id":"quad-1","product_name":"Quad Bike","active":false,
			 "pricing":[{"tier_name":"Solo","price_aed":300}]}
		]`))
	})

	products, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/products", path)
	require.Len(t, products, 2)

	dhow := products[0]
	assert.Equal(t, "dhow-1", dhow.ProductID)
	assert.True(t, dhow.IsActive())
	assert.Equal(t, "AED", dhow.Pricing[0].Currency)
	assert.Equal(t, []string{}, dhow.Inclusions)
	require.NotNil(t, dhow.DurationHours)
	assert.InDelta(t, 2.0, *dhow.DurationHours, 0.001)

	assert.False(t, products[1].IsActive())
	assert.Equal(t, domain.DefaultCurrency, products[1].Pricing[0].Currency)
}

func TestSupplierCatalogClient_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(error) bool
		message string
	}{
		{"missing id", http.StatusOK, `[{"product_name":"x"}]`, domain.IsValidation, "product_id"},
		{"negative price", http.StatusOK, `[{"product_id":"a","product_name":"x","pricing":[{"price_aed":-5}]}]`, domain.IsValidation, "price_aed"},
		{"malformed body", http.StatusOK, `{"products":`, domain.IsUnavailable, "decoding"},
		{"server error", http.StatusInternalServerError, ``, domain.IsUnavailable, "supplier-catalog"},
		{"not found", http.StatusNotFound, ``, domain.IsNotFound, "products"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := supplierClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := s.Load(context.Background())
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestSupplierCatalogClient_Health(t *testing.T) {
	s := supplierClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	assert.Equal(t, "supplier-catalog", s.Name())
	assert.True(t, s.Optional())
	require.NoError(t, s.Check(context.Background()))

	_, err := s.Load(context.Background())
	require.Error(t, err)

	err = s.Check(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}
