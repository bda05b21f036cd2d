package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bodyfat/internal/adapters/kafka"
	"bodyfat/internal/domain/bodyfat"
	"bodyfat/pkg/errors"
)

func setModelEnv(t *testing.T) {
	t.Setenv("MODEL_WITH_DENSITY_PATH", "models/rf_with_density.onnx")
	t.Setenv("MODEL_NO_DENSITY_PATH", "models/rf_no_density.onnx")
	t.Setenv("FEATURE_IMPORTANCE_PATH", "models/feature_importance.json")
}

func TestLoad_Defaults(t *testing.T) {
	setModelEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bodyfat", cfg.App.Name)
	assert.Equal(t, ":7860", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 20.0, cfg.HTTP.RateLimitRPS)
	assert.Equal(t, 40, cfg.HTTP.RateLimitBurst)
	assert.Equal(t, 5, cfg.History.RecentLimit)
	assert.Equal(t, "float_input", cfg.Models.ONNXInputName)
	assert.Equal(t, "variable", cfg.Models.ONNXOutputName)
	assert.Equal(t, kafka.TopicPredictions, cfg.Kafka.PredictionsTopic)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.ErrorTracking.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	setModelEnv(t)
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("HISTORY_RECENT_LIMIT", "10")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, 10, cfg.History.RecentLimit)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
}

func TestLoad_MissingModelPath(t *testing.T) {
	t.Setenv("MODEL_WITH_DENSITY_PATH", "models/rf_with_density.onnx")
	t.Setenv("MODEL_NO_DENSITY_PATH", "")
	t.Setenv("FEATURE_IMPORTANCE_PATH", "models/feature_importance.json")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MODEL_NO_DENSITY_PATH")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		HTTP:          HTTPConfig{RateLimitRPS: 0, RateLimitBurst: 1},
		History:       HistoryConfig{RecentLimit: 0},
		ErrorTracking: ErrorTrackingConfig{Enabled: true, Provider: ProviderSentry},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	var multi *errors.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Errors, 3)
}

func TestValidate_ErrorTrackingProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ErrorTrackingConfig
		wantErr string
	}{
		{name: "disabled ignores provider", cfg: ErrorTrackingConfig{Provider: "datadog"}},
		{name: "sentry with dsn", cfg: ErrorTrackingConfig{Enabled: true, Provider: ProviderSentry, SentryDSN: "https://k@sentry.invalid/1"}},
		{name: "noop needs no dsn", cfg: ErrorTrackingConfig{Enabled: true, Provider: ProviderNoop}},
		{name: "sentry without dsn", cfg: ErrorTrackingConfig{Enabled: true, Provider: ProviderSentry}, wantErr: "SENTRY_DSN"},
		{name: "unknown provider", cfg: ErrorTrackingConfig{Enabled: true, Provider: "datadog"}, wantErr: "ERROR_TRACKING_PROVIDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				HTTP:          HTTPConfig{RateLimitRPS: 1, RateLimitBurst: 1},
				History:       HistoryConfig{RecentLimit: 5},
				ErrorTracking: tt.cfg,
			}

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestModelsConfig_Assets(t *testing.T) {
	models := ModelsConfig{
		WithDensityPath: "a.onnx",
		NoDensityPath:   "b.json",
		ImportancePath:  "fi.json",
		ONNXInputName:   "input",
	}

	assets := models.Assets()
	assert.Equal(t, "a.onnx", assets.ModelPaths[bodyfat.WithDensity])
	assert.Equal(t, "b.json", assets.ModelPaths[bodyfat.WithoutDensity])
	assert.Equal(t, "fi.json", assets.ImportancePath)
	assert.Equal(t, "input", assets.ONNX.InputName)
}
