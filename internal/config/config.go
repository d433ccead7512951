package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upload and analysis defaults.
	MaxUploadBytes   int64
	DefaultMode      domain.Mode
	RetreatThreshold float64
	SeasonalPeriod   int

	// RenderConfigPath points at an optional YAML presentation config.
	RenderConfigPath string

	// Kafka summary publishing configuration.
	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaSummaryTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	maxUpload, err := parseMaxUploadBytes()
	if err != nil {
		return nil, err
	}

	mode, err := domain.ParseMode(sharedcfg.EnvOrDefault("DEFAULT_MODE", string(domain.ModeComparison)))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_MODE: %w", err)
	}

	threshold, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RETREAT_THRESHOLD_M", "10"), 64)
	if err != nil || threshold <= 0 {
		return nil, errors.New("invalid RETREAT_THRESHOLD_M")
	}

	period, err := strconv.Atoi(sharedcfg.EnvOrDefault("SEASONAL_PERIOD", strconv.Itoa(domain.DefaultSeasonalPeriod)))
	if err != nil || period < 2 {
		return nil, errors.New("invalid SEASONAL_PERIOD")
	}

	brokers := os.Getenv("KAFKA_BROKERS")
	kafkaEnabled := brokers != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		MaxUploadBytes:   maxUpload,
		DefaultMode:      mode,
		RetreatThreshold: threshold,
		SeasonalPeriod:   period,

		RenderConfigPath: os.Getenv("RENDER_CONFIG"),

		KafkaEnabled:      kafkaEnabled,
		KafkaSummaryTopic: sharedcfg.EnvOrDefault("KAFKA_SUMMARY_TOPIC", "shoreline-summaries"),
	}
	if brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSummaryTopic == "" {
		return nil, errors.New("KAFKA_SUMMARY_TOPIC is required when publishing is enabled")
	}

	return cfg, nil
}

// AnalysisOptions returns the analysis options for a mode using the configured defaults.
func (c *Config) AnalysisOptions(mode domain.Mode) domain.Options {
	opts := domain.DefaultOptions(mode)
	opts.ThresholdMeters = c.RetreatThreshold
	opts.SeasonalPeriod = c.SeasonalPeriod
	return opts
}

func parseMaxUploadBytes() (int64, error) {
	s := os.Getenv("MAX_UPLOAD_BYTES")
	if s == "" {
		return 10 << 20, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid MAX_UPLOAD_BYTES")
	}
	return n, nil
}
