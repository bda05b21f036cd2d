package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"bodyfat/internal/domain/bodyfat"
	"bodyfat/internal/ml"
	"bodyfat/internal/ml/registry"
	"bodyfat/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Models        ModelsConfig
	History       HistoryConfig
	Kafka         KafkaConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"bodyfat"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

type HTTPConfig struct {
	Addr            string        `envconfig:"HTTP_ADDR" default:":7860"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	RateLimitRPS    float64       `envconfig:"HTTP_RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst  int           `envconfig:"HTTP_RATE_LIMIT_BURST" default:"40"`
}

// ModelsConfig points at the serialized estimators and the importance table.
// Files ending in .onnx are run through ONNX Runtime, .json files are linear models.
type ModelsConfig struct {
	WithDensityPath string `envconfig:"MODEL_WITH_DENSITY_PATH" required:"true"`
	NoDensityPath   string `envconfig:"MODEL_NO_DENSITY_PATH" required:"true"`
	ImportancePath  string `envconfig:"FEATURE_IMPORTANCE_PATH" required:"true"`
	ONNXRuntimeLib  string `envconfig:"ONNXRUNTIME_LIB_PATH"`
	ONNXInputName   string `envconfig:"ONNX_INPUT_NAME" default:"float_input"`
	ONNXOutputName  string `envconfig:"ONNX_OUTPUT_NAME" default:"variable"`
}

// Assets converts the paths into registry load parameters
func (c ModelsConfig) Assets() registry.Assets {
	return registry.Assets{
		ModelPaths: map[bodyfat.Variant]string{
			bodyfat.WithDensity:    c.WithDensityPath,
			bodyfat.WithoutDensity: c.NoDensityPath,
		},
		ImportancePath: c.ImportancePath,
		ONNX: ml.ONNXOptions{
			SharedLibraryPath: c.ONNXRuntimeLib,
			InputName:         c.ONNXInputName,
			OutputName:        c.ONNXOutputName,
		},
	}
}

type HistoryConfig struct {
	RecentLimit int `envconfig:"HISTORY_RECENT_LIMIT" default:"5"`
}

// KafkaConfig is optional; with no brokers prediction events are not published
type KafkaConfig struct {
	Brokers          []string      `envconfig:"KAFKA_BROKERS"`
	PredictionsTopic string        `envconfig:"KAFKA_PREDICTIONS_TOPIC" default:"bodyfat.predictions"`
	WriteTimeout     time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any broker is configured
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// Error tracking backends selectable with ERROR_TRACKING_PROVIDER
const (
	ProviderSentry = "sentry"
	ProviderNoop   = "noop"
)

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values envconfig cannot express
func (c *Config) Validate() error {
	var errs errors.MultiError

	if c.History.RecentLimit <= 0 {
		errs.Add(errors.NewValidationError("HISTORY_RECENT_LIMIT", "must be positive", c.History.RecentLimit))
	}
	if c.HTTP.RateLimitRPS <= 0 {
		errs.Add(errors.NewValidationError("HTTP_RATE_LIMIT_RPS", "must be positive", c.HTTP.RateLimitRPS))
	}
	if c.HTTP.RateLimitBurst <= 0 {
		errs.Add(errors.NewValidationError("HTTP_RATE_LIMIT_BURST", "must be positive", c.HTTP.RateLimitBurst))
	}
	if c.ErrorTracking.Enabled {
		switch c.ErrorTracking.Provider {
		case ProviderSentry:
			if c.ErrorTracking.SentryDSN == "" {
				errs.Add(errors.NewValidationError("SENTRY_DSN", "required when sentry error tracking is enabled", ""))
			}
		case ProviderNoop:
		default:
			errs.Add(errors.NewValidationError("ERROR_TRACKING_PROVIDER", "unknown provider", c.ErrorTracking.Provider))
		}
	}

	if err := errs.ToError(); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
