// Package config loads the service configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultAppName names the service in logs, traces and health output.
	DefaultAppName = "ahmed-travel-playbook"

	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20

	// DefaultClientRetryMaxAttempts is the default number of retry attempts.
	DefaultClientRetryMaxAttempts = 3

	// DefaultClientRetryMultiplier is the default exponential backoff multiplier.
	DefaultClientRetryMultiplier = 2.0

	// DefaultClientRetryJitterFactor is the default jitter percentage (±25%).
	DefaultClientRetryJitterFactor = 0.25

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	// DefaultRecommendationLimit caps the tours returned per recommendation.
	DefaultRecommendationLimit = 3

	// DefaultRateLimitRPS is the sustained per-client request rate.
	DefaultRateLimitRPS = 20

	// DefaultRateLimitBurst is the per-client burst allowance.
	DefaultRateLimitBurst = 40

	// DefaultCORSMaxAge is how long browsers may cache a preflight, in seconds.
	DefaultCORSMaxAge = 600
)

// Config is the root configuration structure.
type Config struct {
	App         AppConfig         `koanf:"app"`
	Server      ServerConfig      `koanf:"server"`
	Log         LogConfig         `koanf:"log"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
	Auth        AuthConfig        `koanf:"auth"`
	Client      ClientConfig      `koanf:"client"`
	Catalog     CatalogConfig     `koanf:"catalog"`
	Storage     StorageConfig     `koanf:"storage"`
	Recommender RecommenderConfig `koanf:"recommender"`
	CORS        CORSConfig        `koanf:"cors"`
	RateLimit   RateLimitConfig   `koanf:"rate_limit"`
	Export      ExportConfig      `koanf:"export"`

	// Features holds feature flag values. Dotted flag names arrive as
	// nested maps; see the flags adapter.
	Features map[string]any `koanf:"features"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// AuthConfig names the headers the API gateway uses to forward verified
// claims. The gateway validates tokens; this service only reads headers.
type AuthConfig struct {
	SubjectHeader string `koanf:"subject_header"`
	RolesHeader   string `koanf:"roles_header"`

	// AdminRole may ingest products into the catalog.
	AdminRole string `koanf:"admin_role" validate:"required"`
}

// ClientConfig contains HTTP client settings for downstream services.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	Transport      TransportConfig      `koanf:"transport"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// CatalogConfig locates the product store and controls catalog refresh.
type CatalogConfig struct {
	ProductsPath    string        `koanf:"products_path"    validate:"required"`
	BackupDir       string        `koanf:"backup_dir"`
	BackupRetention time.Duration `koanf:"backup_retention" validate:"required,min=1h"`
	LockStale       time.Duration `koanf:"lock_stale"       validate:"required,min=1s"`

	// RefreshInterval of zero disables the background refresher.
	RefreshInterval time.Duration       `koanf:"refresh_interval" validate:"omitempty,min=1s"`
	LoadTimeout     time.Duration       `koanf:"load_timeout"     validate:"required,min=100ms"`
	Remote          RemoteCatalogConfig `koanf:"remote"`
}

// RemoteCatalogConfig points at the supplier catalog API.
type RemoteCatalogConfig struct {
	Enabled bool   `koanf:"enabled"`
	Name    string `koanf:"name"     validate:"required_if=Enabled true"`
	BaseURL string `koanf:"base_url" validate:"required_if=Enabled true,omitempty,url"`
}

// StorageConfig selects the key-value backend for recent quotes and
// favorite scripts.
type StorageConfig struct {
	Driver    string      `koanf:"driver"     validate:"required,oneof=memory redis"`
	KeyPrefix string      `koanf:"key_prefix"`
	Redis     RedisConfig `koanf:"redis"`
}

// RedisConfig contains redis connection settings.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"       validate:"min=0,max=15"`
}

// RecommenderConfig tunes the recommendation strategies.
type RecommenderConfig struct {
	// DefaultStrategy empty means "pick by the shape of the criteria".
	DefaultStrategy string        `koanf:"default_strategy" validate:"omitempty,oneof=structured freeform"`
	Limit           int           `koanf:"limit"            validate:"required,min=1,max=20"`
	Weights         WeightsConfig `koanf:"weights"`
}

// WeightsConfig overrides freeform vector weights. Zero keeps the default.
type WeightsConfig struct {
	Thrill   int `koanf:"thrill"   validate:"min=0,max=100"`
	Serenity int `koanf:"serenity" validate:"min=0,max=100"`
	Culture  int `koanf:"culture"  validate:"min=0,max=100"`
	Luxury   int `koanf:"luxury"   validate:"min=0,max=100"`
	Morning  int `koanf:"morning"  validate:"min=0,max=100"`
	Night    int `koanf:"night"    validate:"min=0,max=100"`
}

// CORSConfig configures cross-origin access for the dashboard.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
	AllowedMethods []string `koanf:"allowed_methods"`
	AllowedHeaders []string `koanf:"allowed_headers"`
	MaxAge         int      `koanf:"max_age" validate:"min=0"`
}

// RateLimitConfig configures per-client token buckets.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"   validate:"required_if=Enabled true,omitempty,gt=0"`
	Burst   int     `koanf:"burst" validate:"required_if=Enabled true,omitempty,min=1"`
}

// ExportConfig brands exported quotes.
type ExportConfig struct {
	CompanyName    string `koanf:"company_name"    validate:"required"`
	WhatsAppNumber string `koanf:"whatsapp_number" validate:"omitempty,numeric"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        DefaultAppName,
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "15s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/playbook.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  DefaultAppName,
		"telemetry.sampling_rate": 1.0,

		"auth.subject_header": "X-User-ID",
		"auth.roles_header":   "X-User-Roles",
		"auth.admin_role":     "catalog-admin",

		"client.timeout":                           "10s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"catalog.products_path":    "./data/products.json",
		"catalog.backup_dir":       "",
		"catalog.backup_retention": "168h",
		"catalog.lock_stale":       "30s",
		"catalog.refresh_interval": "0s",
		"catalog.load_timeout":     "10s",
		"catalog.remote.enabled":   false,
		"catalog.remote.name":      "supplier-catalog",
		"catalog.remote.base_url":  "",

		"storage.driver":         "memory",
		"storage.key_prefix":     "",
		"storage.redis.addr":     "localhost:6379",
		"storage.redis.password": "",
		"storage.redis.db":       0,

		"recommender.default_strategy": "",
		"recommender.limit":            DefaultRecommendationLimit,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		"cors.allowed_headers": []string{"Content-Type", "X-Request-ID", "X-Correlation-ID", "X-User-ID", "X-User-Roles"},
		"cors.max_age":         DefaultCORSMaxAge,

		"rate_limit.enabled": false,
		"rate_limit.rps":     DefaultRateLimitRPS,
		"rate_limit.burst":   DefaultRateLimitBurst,

		"export.company_name":    "Ahmed Travel",
		"export.whatsapp_number": "",

		"features.export.pdf":         true,
		"features.lists.agent-scoped": false,
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err = k.Load(env.Provider("APP_", ".", envKeyMapper(k.Keys())), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_CATALOG_PRODUCTS_PATH to catalog.products_path.
// Known keys are matched first so that underscores inside a key survive;
// unknown variables fall back to treating every underscore as a dot.
func envKeyMapper(known []string) func(string) string {
	byEnv := make(map[string]string, len(known))
	for _, key := range known {
		byEnv[envName(key)] = key
	}

	return func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, "APP_"))
		if key, ok := byEnv[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

func envName(key string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(key)
}

// loadFileIfExists loads a YAML config file if it exists.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
