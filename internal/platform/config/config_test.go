package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The tests run from the package directory, where no configs/ exists, so
// only defaults and environment variables apply.

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAppName, cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "catalog-admin", cfg.Auth.AdminRole)
	assert.Equal(t, "X-User-ID", cfg.Auth.SubjectHeader)
	assert.Equal(t, "Ahmed Travel", cfg.Export.CompanyName)
	assert.Equal(t, DefaultRecommendationLimit, cfg.Recommender.Limit)
	assert.Empty(t, cfg.Recommender.DefaultStrategy)
	assert.False(t, cfg.Catalog.Remote.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoad_DurationParsing(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Client.Retry.InitialInterval)
	assert.Equal(t, 168*time.Hour, cfg.Catalog.BackupRetention)
	assert.Equal(t, 30*time.Second, cfg.Catalog.LockStale)
	assert.Zero(t, cfg.Catalog.RefreshInterval)
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "plain keys",
			env:  map[string]string{"APP_SERVER_PORT": "9090", "APP_LOG_LEVEL": "warn"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "warn", cfg.Log.Level)
			},
		},
		{
			name: "keys containing underscores",
			env: map[string]string{
				"APP_CATALOG_PRODUCTS_PATH":    "/srv/products.json",
				"APP_STORAGE_KEY_PREFIX":       "staging:",
				"APP_CATALOG_REFRESH_INTERVAL": "5m",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/products.json", cfg.Catalog.ProductsPath)
				assert.Equal(t, "staging:", cfg.Storage.KeyPrefix)
				assert.Equal(t, 5*time.Minute, cfg.Catalog.RefreshInterval)
			},
		},
		{
			name: "nested keys with underscores",
			env: map[string]string{
				"APP_CLIENT_CIRCUIT_BREAKER_MAX_FAILURES": "9",
				"APP_CATALOG_REMOTE_BASE_URL":             "https://supplier.example.com",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9, cfg.Client.CircuitBreaker.MaxFailures)
				assert.Equal(t, "https://supplier.example.com", cfg.Catalog.Remote.BaseURL)
			},
		},
		{
			name: "booleans",
			env:  map[string]string{"APP_TELEMETRY_ENABLED": "true", "APP_RATE_LIMIT_ENABLED": "true"},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Telemetry.Enabled)
				assert.True(t, cfg.RateLimit.Enabled)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load("")
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := Load("nonexistent")
	require.NoError(t, err)

	assert.Equal(t, DefaultAppName, cfg.App.Name)
}

func TestLoad_FeatureDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	export, ok := cfg.Features["export"].(map[string]any)
	require.True(t, ok, "dotted flag names nest under features")
	assert.Equal(t, true, export["pdf"])
}

func TestEnvKeyMapper(t *testing.T) {
	mapper := envKeyMapper([]string{"catalog.products_path", "features.lists.agent-scoped", "server.port"})

	tests := []struct {
		env  string
		want string
	}{
		{"APP_CATALOG_PRODUCTS_PATH", "catalog.products_path"},
		{"APP_FEATURES_LISTS_AGENT_SCOPED", "features.lists.agent-scoped"},
		{"APP_SERVER_PORT", "server.port"},
		{"APP_SOMETHING_NEW", "something.new"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, mapper(tt.env))
		})
	}
}

func TestDefaults(t *testing.T) {
	d := defaults()

	assert.Equal(t, DefaultAppName, d["app.name"])
	assert.Equal(t, DefaultServerPort, d["server.port"])
	assert.Equal(t, "memory", d["storage.driver"])
	assert.Equal(t, true, d["features.export.pdf"])
	assert.Equal(t, DefaultClientRetryMaxAttempts, d["client.retry.max_attempts"])
}
