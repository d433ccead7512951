package config

import (
	"testing"
	"time"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBroker = "broker1:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, domain.ModeComparison, cfg.DefaultMode)
	assert.Equal(t, 10.0, cfg.RetreatThreshold)
	assert.Equal(t, 12, cfg.SeasonalPeriod)
	assert.Empty(t, cfg.RenderConfigPath)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "shoreline-summaries", cfg.KafkaSummaryTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("DEFAULT_MODE", "single")
	t.Setenv("RETREAT_THRESHOLD_M", "25.5")
	t.Setenv("SEASONAL_PERIOD", "4")
	t.Setenv("RENDER_CONFIG", "/etc/shoreline/render.yaml")
	t.Setenv("KAFKA_BROKERS", testBroker+",broker2:9092")
	t.Setenv("KAFKA_SUMMARY_TOPIC", "custom-summaries")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(1048576), cfg.MaxUploadBytes)
	assert.Equal(t, domain.ModeSingle, cfg.DefaultMode)
	assert.Equal(t, 25.5, cfg.RetreatThreshold)
	assert.Equal(t, 4, cfg.SeasonalPeriod)
	assert.Equal(t, "/etc/shoreline/render.yaml", cfg.RenderConfigPath)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{testBroker, "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-summaries", cfg.KafkaSummaryTopic)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"MAX_UPLOAD_BYTES", "0"},
		{"MAX_UPLOAD_BYTES", "lots"},
		{"DEFAULT_MODE", "triple"},
		{"RETREAT_THRESHOLD_M", "-3"},
		{"RETREAT_THRESHOLD_M", "far"},
		{"SEASONAL_PERIOD", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", testBroker)
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestAnalysisOptions(t *testing.T) {
	cfg := &Config{RetreatThreshold: 5, SeasonalPeriod: 4}

	opts := cfg.AnalysisOptions(domain.ModeSingle)

	assert.Equal(t, domain.ModeSingle, opts.Mode)
	assert.Equal(t, domain.PolicyFine, opts.Policy)
	assert.Equal(t, 5.0, opts.ThresholdMeters)
	assert.Equal(t, 4, opts.SeasonalPeriod)
}
