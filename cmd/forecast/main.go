package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/rain-forecast-service/internal/adapter/cache"
	httpadapter "github.com/couchcryptid/rain-forecast-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/rain-forecast-service/internal/adapter/kafka"
	"github.com/couchcryptid/rain-forecast-service/internal/adapter/onnx"
	"github.com/couchcryptid/rain-forecast-service/internal/artifact"
	"github.com/couchcryptid/rain-forecast-service/internal/config"
	"github.com/couchcryptid/rain-forecast-service/internal/observability"
	"github.com/couchcryptid/rain-forecast-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "rain-forecast")
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Missing or inconsistent artifacts are fatal at startup.
	bundle, err := loadArtifacts(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load artifacts", "error", err)
		os.Exit(1)
	}
	defer bundle.Close()
	metrics.ArtifactsLoaded.Set(1)
	logger.Info("artifacts loaded",
		"columns", bundle.Manifest.Width(),
		"encoded_fields", bundle.Encoding.Fields(),
		"classifier", cfg.ClassifierFormat,
	)
	for _, problem := range bundle.Problems() {
		logger.Warn("artifact problem", "detail", problem)
	}

	var forecaster pipeline.Forecaster = pipeline.NewPredictor(pipeline.ArtifactsFromBundle(bundle), metrics)
	if cfg.PredictionCacheSize > 0 {
		forecaster = cache.NewCachedForecaster(forecaster, cfg.PredictionCacheSize, metrics)
		logger.Info("prediction cache enabled", "size", cfg.PredictionCacheSize)
	}

	var ready sharedobs.ReadinessChecker = alwaysReady{}
	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p := pipeline.New(reader, pipeline.NewTransformer(forecaster, logger), writer, logger, metrics, cfg.BatchSize)
		ready = p

		// Start streaming scoring.
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka streaming disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, forecaster, ready, metrics, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	metrics.ArtifactsLoaded.Set(0)

	logger.Info("shutdown complete")
}

func loadArtifacts(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*artifact.Bundle, error) {
	var src artifact.Source = artifact.DirSource{Dir: cfg.ArtifactDir}
	if cfg.ArtifactURL != "" {
		src = artifact.NewHTTPSource(cfg.ArtifactURL, cfg.ArtifactTimeout, logger)
	}

	var opts artifact.Options
	if cfg.ClassifierFormat == config.ClassifierONNX {
		opts = artifact.Options{
			ClassifierFile:   artifact.ONNXClassifierFile,
			DecodeClassifier: onnx.NewDecoder(cfg.ONNXRuntimeLib),
		}
	}
	return artifact.LoadBundle(ctx, src, opts)
}

// alwaysReady is the readiness check when only the HTTP API is served:
// artifacts are loaded before the listener starts.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }
