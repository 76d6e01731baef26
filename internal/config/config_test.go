package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "models", cfg.ArtifactDir)
	assert.Empty(t, cfg.ArtifactURL)
	assert.Equal(t, 10*time.Second, cfg.ArtifactTimeout)
	assert.Equal(t, ClassifierJSON, cfg.ClassifierFormat)
	assert.Equal(t, "models/libonnxruntime.so", cfg.ONNXRuntimeLib)
	assert.Zero(t, cfg.PredictionCacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "weather-observations", cfg.KafkaSourceTopic)
	assert.Equal(t, "rain-forecasts", cfg.KafkaSinkTopic)
	assert.Equal(t, "rain-forecast", cfg.KafkaGroupID)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("ARTIFACT_DIR", "/srv/models")
	t.Setenv("ARTIFACT_URL", "https://models.example.com/rain/v3")
	t.Setenv("ARTIFACT_TIMEOUT", "2s")
	t.Setenv("CLASSIFIER_FORMAT", "onnx")
	t.Setenv("PREDICTION_CACHE_SIZE", "256")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/srv/models", cfg.ArtifactDir)
	assert.Equal(t, "https://models.example.com/rain/v3", cfg.ArtifactURL)
	assert.Equal(t, 2*time.Second, cfg.ArtifactTimeout)
	assert.Equal(t, ClassifierONNX, cfg.ClassifierFormat)
	assert.Equal(t, "/srv/models/libonnxruntime.so", cfg.ONNXRuntimeLib)
	assert.Equal(t, 256, cfg.PredictionCacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
}

func TestLoad_ExplicitONNXRuntimeLib(t *testing.T) {
	t.Setenv("ONNXRUNTIME_LIB", "/usr/lib/libonnxruntime.so.1")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/usr/lib/libonnxruntime.so.1", cfg.ONNXRuntimeLib)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidArtifactTimeout(t *testing.T) {
	t.Setenv("ARTIFACT_TIMEOUT", "0s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARTIFACT_TIMEOUT")
}

func TestLoad_UnknownClassifierFormat(t *testing.T) {
	t.Setenv("CLASSIFIER_FORMAT", "pickle")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLASSIFIER_FORMAT")
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	for _, v := range []string{"-1", "lots"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("PREDICTION_CACHE_SIZE", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "PREDICTION_CACHE_SIZE")
		})
	}
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaBrokersIgnoredWhenDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " , ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.KafkaBrokers)
}
