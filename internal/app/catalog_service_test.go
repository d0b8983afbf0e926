package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/mocks"
	"github.com/ahmedtravel/playbook/internal/ports"
)

func newSource(t *testing.T, name string, required bool, c *domain.Catalog, err error) *mocks.MockCatalogSource {
	t.Helper()

	src := mocks.NewMockCatalogSource(t)
	src.On("Name").Return(name).Maybe()
	src.On("Required").Return(required).Maybe()
	src.On("Load", mock.Anything).Return(c, err)

	return src
}

func TestLoadSources_KeepsOrderAndFailures(t *testing.T) {
	first := testCatalog()

	loads := loadSources(context.Background(), []ports.CatalogSource{
		newSource(t, "reference", true, first, nil),
		newSource(t, "supplier-api", false, nil, errors.New("timeout")),
		newSource(t, "products", false, &domain.Catalog{}, nil),
	})

	require.Len(t, loads, 3)
	assert.Same(t, first, loads[0].catalog)
	require.EqualError(t, loads[1].err, "timeout")
	assert.Equal(t, "supplier-api", loads[1].source.Name())
	require.NoError(t, loads[2].err)
}

func TestNewCatalogService_PanicsWithoutSources(t *testing.T) {
	assert.Panics(t, func() {
		NewCatalogService(CatalogServiceConfig{})
	})
}

func TestCatalogService_Refresh(t *testing.T) {
	reference := testCatalog()
	supplier := &domain.Catalog{Tours: []domain.Tour{
		{ID: "dubai-full-day", Name: "Supplier duplicate"},
		{ID: "catalog-0", Name: "Catalog Product"},
	}}

	svc := NewCatalogService(CatalogServiceConfig{
		Sources: []ports.CatalogSource{
			newSource(t, "reference", true, reference, nil),
			newSource(t, "products", false, supplier, nil),
			newSource(t, "supplier-api", false, nil, errors.New("connection refused")),
		},
		Logger: discardLogger(),
	})

	require.ErrorIs(t, svc.Check(context.Background()), ErrCatalogNotLoaded)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Tours)
	require.Len(t, result.Sources, 3)
	assert.Equal(t, "connection refused", result.Sources[2].Error)

	c := svc.Catalog()
	dup, ok := c.Tour("dubai-full-day")
	require.True(t, ok)
	assert.Equal(t, "Dubai Full-Day Explore Tour", dup.Name)

	_, ok = c.Tour("catalog-0")
	assert.True(t, ok)
	assert.NoError(t, svc.Check(context.Background()))

	_, loaded := svc.LoadedAt()
	assert.True(t, loaded)
}

// flakySource succeeds once, then fails.
type flakySource struct {
	first *domain.Catalog
	calls int
}

func (f *flakySource) Name() string   { return "reference" }
func (f *flakySource) Required() bool { return true }

func (f *flakySource) Load(context.Context) (*domain.Catalog, error) {
	f.calls++
	if f.calls == 1 {
		return f.first, nil
	}

	return nil, errors.New("corrupt")
}

func TestCatalogService_RequiredFailureKeepsSnapshot(t *testing.T) {
	svc := NewCatalogService(CatalogServiceConfig{
		Sources: []ports.CatalogSource{&flakySource{first: testCatalog()}},
		Logger:  discardLogger(),
	})

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")

	assert.Len(t, svc.Catalog().Tours, 3)
}

func TestCatalogService_Tours(t *testing.T) {
	svc := NewCatalogService(CatalogServiceConfig{
		Sources: []ports.CatalogSource{newSource(t, "reference", true, testCatalog(), nil)},
		Logger:  discardLogger(),
	})

	assert.Empty(t, svc.Catalog().Tours)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name     string
		category string
		want     int
		errCheck func(error) bool
	}{
		{name: "all", category: "", want: 3},
		{name: "desert", category: "desert", want: 1},
		{name: "empty category", category: "adventure", want: 0},
		{name: "unknown", category: "shopping", errCheck: domain.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tours, err := svc.Tours(context.Background(), tt.category)
			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, tours)
			assert.Len(t, tours, tt.want)
		})
	}

	_, err = svc.Tour(context.Background(), "nope")
	assert.True(t, domain.IsNotFound(err))
}

func TestCatalogService_Compare(t *testing.T) {
	svc := NewCatalogService(CatalogServiceConfig{
		Sources: []ports.CatalogSource{newSource(t, "reference", true, testCatalog(), nil)},
		Logger:  discardLogger(),
	})

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	cmp, err := svc.Compare(context.Background(), []string{"dhow-cruise-marina", "dubai-full-day"})
	require.NoError(t, err)
	assert.Len(t, cmp.Selected(), 2)

	_, err = svc.Compare(context.Background(), nil)
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Compare(context.Background(), []string{"dubai-full-day", "dubai-full-day"})
	assert.True(t, domain.IsConflict(err))
}

func TestCatalogService_CompareKeepsItsSnapshot(t *testing.T) {
	src := mocks.NewMockCatalogSource(t)
	src.On("Name").Return("reference").Maybe()
	src.On("Required").Return(true).Maybe()
	src.On("Load", mock.Anything).Return(testCatalog(), nil).Twice()

	svc := NewCatalogService(CatalogServiceConfig{Sources: []ports.CatalogSource{src}, Logger: discardLogger()})

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	before := svc.Catalog()

	cmp, err := svc.Compare(context.Background(), []string{"dubai-full-day"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Same(t, before, cmp.Catalog)
	assert.NotSame(t, svc.Catalog(), cmp.Catalog)

	for _, tour := range cmp.Available(cmp.Catalog) {
		assert.NotEqual(t, "dubai-full-day", tour.ID)
	}
}

func TestMergeCatalogs_FirstWins(t *testing.T) {
	a := &domain.Catalog{Vehicles: []domain.VehicleRate{{Vehicle: "Toyota Hiace", FullDayDubai: 620}}}
	b := &domain.Catalog{Vehicles: []domain.VehicleRate{{Vehicle: "toyota hiace", FullDayDubai: 1}, {Vehicle: "Grand Coach"}}}

	merged := MergeCatalogs(a, nil, b)

	require.Len(t, merged.Vehicles, 2)
	assert.Equal(t, 620, merged.Vehicles[0].FullDayDubai)
}
