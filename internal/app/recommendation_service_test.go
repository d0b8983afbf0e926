package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/mocks"
	"github.com/ahmedtravel/playbook/internal/ports"
)

func TestRecommendationService_Strategies(t *testing.T) {
	svc := NewRecommendationService(RecommendationServiceConfig{Catalog: staticCatalog{c: testCatalog()}})

	assert.Equal(t, []string{domain.StrategyFreeform, domain.StrategyStructured}, svc.Strategies())
	assert.Len(t, svc.Questions(), 4)
}

func TestRecommendationService_Recommend(t *testing.T) {
	tests := []struct {
		name         string
		strategy     string
		criteria     domain.Criteria
		defaultName  string
		flagValue    string
		wantStrategy string
		errCheck     func(error) bool
	}{
		{
			name:         "free text picks freeform",
			criteria:     domain.FreeText("some thrill please"),
			wantStrategy: domain.StrategyFreeform,
		},
		{
			name:         "answers pick structured",
			criteria:     domain.StructuredAnswers{"interest": "adventure"},
			wantStrategy: domain.StrategyStructured,
		},
		{
			name:         "explicit strategy wins over flag",
			strategy:     domain.StrategyStructured,
			criteria:     domain.StructuredAnswers{},
			flagValue:    domain.StrategyFreeform,
			wantStrategy: domain.StrategyStructured,
		},
		{
			name:         "flag forces strategy",
			criteria:     domain.FreeText("thrill"),
			flagValue:    domain.StrategyFreeform,
			wantStrategy: domain.StrategyFreeform,
		},
		{
			name:        "default strategy with the wrong variant",
			criteria:    domain.StructuredAnswers{"group": "solo"},
			defaultName: domain.StrategyFreeform,
			errCheck:    domain.IsValidation,
		},
		{
			name:     "unknown strategy",
			strategy: "llm",
			criteria: domain.FreeText("x"),
			errCheck: domain.IsValidation,
		},
		{
			name:     "missing criteria",
			errCheck: domain.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := mocks.NewMockFeatureFlags(t)
			flags.On("GetString", mock.Anything, ports.FlagRecommenderStrategy, tt.defaultName).
				Return(orString(tt.flagValue, tt.defaultName)).Maybe()

			svc := NewRecommendationService(RecommendationServiceConfig{
				Catalog:         staticCatalog{c: testCatalog()},
				DefaultStrategy: tt.defaultName,
				Flags:           flags,
				Logger:          discardLogger(),
			})

			rec, err := svc.Recommend(context.Background(), tt.strategy, tt.criteria)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStrategy, rec.Strategy)
		})
	}
}

func TestRecommendationService_FreeformRanks(t *testing.T) {
	svc := NewRecommendationService(RecommendationServiceConfig{Catalog: staticCatalog{c: testCatalog()}})

	rec, err := svc.Recommend(context.Background(), "", domain.FreeText("looking for an adrenaline thrill"))
	require.NoError(t, err)

	require.NotEmpty(t, rec.Tours)
	assert.Equal(t, "desert-safari-sharing", rec.Tours[0].Tour.ID)
	assert.Equal(t, 98, rec.Tours[0].Resonance)
}

func orString(v, def string) string {
	if v != "" {
		return v
	}

	return def
}
