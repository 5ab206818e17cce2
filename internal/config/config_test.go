package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/hitlog.json", cfg.HitLogPath)
	assert.Equal(t, "08167700", cfg.USGSSiteID)
	assert.Equal(t, 10*time.Second, cfg.USGSTimeout)
	assert.Equal(t, 100, cfg.USGSCacheSize)
	assert.Equal(t, 5*time.Minute, cfg.USGSCacheTTL)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "dashboard-visit-events", cfg.KafkaVisitsTopic)
	assert.Equal(t, 50, cfg.PublishBatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.PublishFlushInterval)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("HITLOG_PATH", "/var/lib/dashboard/hitlog.json")
	t.Setenv("USGS_SITE_ID", "08168500")
	t.Setenv("USGS_TIMEOUT", "5s")
	t.Setenv("USGS_CACHE_SIZE", "25")
	t.Setenv("USGS_CACHE_TTL", "1m")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("KAFKA_VISITS_TOPIC", "visits")
	t.Setenv("PUBLISH_BATCH_SIZE", "10")
	t.Setenv("PUBLISH_FLUSH_INTERVAL", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/var/lib/dashboard/hitlog.json", cfg.HitLogPath)
	assert.Equal(t, "08168500", cfg.USGSSiteID)
	assert.Equal(t, 5*time.Second, cfg.USGSTimeout)
	assert.Equal(t, 25, cfg.USGSCacheSize)
	assert.Equal(t, time.Minute, cfg.USGSCacheTTL)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, "visits", cfg.KafkaVisitsTopic)
	assert.Equal(t, 10, cfg.PublishBatchSize)
	assert.Equal(t, 2*time.Second, cfg.PublishFlushInterval)
}

func TestLoad_KafkaEnabledByBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-1:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_KafkaEnabledOverride(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-1:9092")
	t.Setenv("KAFKA_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"negative usgs timeout", "USGS_TIMEOUT", "-5s"},
		{"zero cache size", "USGS_CACHE_SIZE", "0"},
		{"non-numeric batch size", "PUBLISH_BATCH_SIZE", "many"},
		{"bad flush interval", "PUBLISH_FLUSH_INTERVAL", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_EnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
