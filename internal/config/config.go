package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Classifier artifact formats.
const (
	ClassifierJSON = "json"
	ClassifierONNX = "onnx"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Fitted artifact location.
	ArtifactDir      string
	ArtifactURL      string
	ArtifactTimeout  time.Duration
	ClassifierFormat string
	ONNXRuntimeLib   string

	PredictionCacheSize int

	// Streaming scoring.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	artifactTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("ARTIFACT_TIMEOUT", "10s"))
	if err != nil || artifactTimeout <= 0 {
		return nil, errors.New("invalid ARTIFACT_TIMEOUT")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseCacheSize()
	if err != nil {
		return nil, err
	}

	artifactDir := sharedcfg.EnvOrDefault("ARTIFACT_DIR", "models")

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ArtifactDir:      artifactDir,
		ArtifactURL:      os.Getenv("ARTIFACT_URL"),
		ArtifactTimeout:  artifactTimeout,
		ClassifierFormat: sharedcfg.EnvOrDefault("CLASSIFIER_FORMAT", ClassifierJSON),
		ONNXRuntimeLib:   sharedcfg.EnvOrDefault("ONNXRUNTIME_LIB", filepath.Join(artifactDir, "libonnxruntime.so")),

		PredictionCacheSize: cacheSize,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "weather-observations"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "rain-forecasts"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "rain-forecast"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.ClassifierFormat != ClassifierJSON && cfg.ClassifierFormat != ClassifierONNX {
		return nil, fmt.Errorf("CLASSIFIER_FORMAT must be %q or %q, got %q", ClassifierJSON, ClassifierONNX, cfg.ClassifierFormat)
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

func parseCacheSize() (int, error) {
	s := os.Getenv("PREDICTION_CACHE_SIZE")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid PREDICTION_CACHE_SIZE")
	}
	return n, nil
}
