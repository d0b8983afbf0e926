//go:build integration

package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedtravel/playbook/internal/adapters/flags"
	"github.com/ahmedtravel/playbook/internal/platform/config"
	"github.com/ahmedtravel/playbook/internal/ports"
)

// TestConfig_ShippedProfiles loads every profile in configs/ from the
// repository root, the way the service starts, and validates it.
func TestConfig_ShippedProfiles(t *testing.T) {
	t.Chdir("../..")

	tests := []struct {
		profile string
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			profile: "local",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "pretty", cfg.Log.Format)
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, 5*time.Minute, cfg.Catalog.RefreshInterval)
				assert.Equal(t, "memory", cfg.Storage.Driver)
			},
		},
		{
			profile: "prod",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "prod", cfg.App.Environment)
				assert.Equal(t, "redis", cfg.Storage.Driver)
				assert.True(t, cfg.Telemetry.Enabled)
				assert.True(t, cfg.RateLimit.Enabled)
				assert.True(t, cfg.Log.File.Enabled)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			cfg, err := config.Load(tt.profile)
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			assert.Equal(t, config.DefaultAppName, cfg.App.Name)
			assert.Equal(t, "catalog-admin", cfg.Auth.AdminRole)
			tt.check(t, cfg)
		})
	}
}

// TestConfig_EnvOverridesFeatureFlags checks that a flag set through the
// environment reaches the flags adapter.
func TestConfig_EnvOverridesFeatureFlags(t *testing.T) {
	t.Chdir("../..")
	t.Setenv("APP_FEATURES_LISTS_AGENT_SCOPED", "true")
	t.Setenv("APP_FEATURES_EXPORT_PDF", "false")

	cfg, err := config.Load("local")
	require.NoError(t, err)

	ff := flags.New(cfg.Features)

	assert.True(t, ff.IsEnabled(t.Context(), ports.FlagAgentScopedLists, false))
	assert.False(t, ff.IsEnabled(t.Context(), ports.FlagPDFExport, true))
}
