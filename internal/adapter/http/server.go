package http

import (
	"context"
	"embed"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
	"github.com/couchcryptid/rain-forecast-service/internal/observability"
	"github.com/couchcryptid/rain-forecast-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps a /predict request body.
const maxBodyBytes = 1 << 20

const invalidInputMessage = "Invalid input format"

//go:embed static/index.html
var static embed.FS

// Server exposes the forecast API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	forecaster pipeline.Forecaster
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /predict, /, /health, /healthz,
// /readyz, and /metrics routes.
func NewServer(addr string, forecaster pipeline.Forecaster, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		forecaster: forecaster,
		metrics:    metrics,
		logger:     logger,
	}

	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.reject(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		s.reject(w, http.StatusBadRequest, err)
		return
	}

	rec, err := domain.DecodeInputRecord(body)
	if err != nil {
		s.reject(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.forecaster.Predict(r.Context(), rec)
	if err != nil {
		s.logger.Warn("prediction failed", "kind", pipeline.ErrorKind(err), "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, result)
}

// reject answers a request whose body is not a usable observation.
func (s *Server) reject(w http.ResponseWriter, status int, err error) {
	s.metrics.PredictionErrors.WithLabelValues("malformed").Inc()
	s.logger.Debug("observation rejected", "status", status, "error", err)
	sharedobs.WriteJSON(w, status, errorBody(invalidInputMessage))
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, static, "static/index.html")
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"status":       "running",
		"model_loaded": true,
	})
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
