package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Hit log persistence.
	HitLogPath string

	// USGS water services.
	USGSSiteID    string
	USGSTimeout   time.Duration
	USGSCacheSize int
	USGSCacheTTL  time.Duration

	// Optional visit-event publishing to the org's analytics pipeline.
	// Enabled implicitly by setting KAFKA_BROKERS, explicitly via KAFKA_ENABLED.
	KafkaBrokers         []string
	KafkaVisitsTopic     string
	KafkaEnabled         bool
	PublishBatchSize     int
	PublishFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	usgsTimeout, err := envDuration("USGS_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	usgsCacheTTL, err := envDuration("USGS_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	flushInterval, err := envDuration("PUBLISH_FLUSH_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	usgsCacheSize, err := envPositiveInt("USGS_CACHE_SIZE", 100)
	if err != nil {
		return nil, err
	}
	batchSize, err := envPositiveInt("PUBLISH_BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		HitLogPath: envOrDefault("HITLOG_PATH", "data/hitlog.json"),

		USGSSiteID:    envOrDefault("USGS_SITE_ID", "08167700"),
		USGSTimeout:   usgsTimeout,
		USGSCacheSize: usgsCacheSize,
		USGSCacheTTL:  usgsCacheTTL,

		KafkaBrokers:         brokers,
		KafkaVisitsTopic:     envOrDefault("KAFKA_VISITS_TOPIC", "dashboard-visit-events"),
		KafkaEnabled:         kafkaEnabled,
		PublishBatchSize:     batchSize,
		PublishFlushInterval: flushInterval,
	}

	if cfg.USGSSiteID == "" {
		return nil, fmt.Errorf("USGS_SITE_ID is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaVisitsTopic == "" {
		return nil, fmt.Errorf("KAFKA_VISITS_TOPIC is required when publishing is enabled")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func envPositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
