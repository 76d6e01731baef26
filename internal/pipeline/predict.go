package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/couchcryptid/rain-forecast-service/internal/artifact"
	"github.com/couchcryptid/rain-forecast-service/internal/domain"
	"github.com/couchcryptid/rain-forecast-service/internal/observability"
)

// Forecaster scores a single observation.
type Forecaster interface {
	Predict(ctx context.Context, rec domain.InputRecord) (domain.PredictionResult, error)
}

// Artifacts is the read-only context a Predictor runs against. It is built
// once at startup and shared by every request.
type Artifacts struct {
	Manifest    domain.Manifest
	Encoding    *domain.Encoding
	Categorical []string
	Imputer     domain.Imputer
	Scaler      domain.Scaler
	Classifier  domain.Classifier
}

// ArtifactsFromBundle adapts a loaded artifact bundle.
func ArtifactsFromBundle(b *artifact.Bundle) Artifacts {
	return Artifacts{
		Manifest:    b.Manifest,
		Encoding:    b.Encoding,
		Categorical: domain.CategoricalFields,
		Imputer:     b.Imputer,
		Scaler:      b.Scaler,
		Classifier:  b.Classifier,
	}
}

// Predictor runs the full preprocessing and inference pass for one record.
// It holds no per-request state and is safe for concurrent use as long as the
// underlying capabilities are.
type Predictor struct {
	art     Artifacts
	metrics *observability.Metrics
}

// NewPredictor creates a Predictor over art.
func NewPredictor(art Artifacts, metrics *observability.Metrics) *Predictor {
	return &Predictor{art: art, metrics: metrics}
}

// Features reconstructs the unscaled feature vector for rec, positionally
// aligned to the manifest.
func (p *Predictor) Features(rec domain.InputRecord) (domain.FeatureVector, error) {
	normalized := domain.NormalizeSchema(rec, p.art.Categorical)

	cells := make([]domain.Value, len(p.art.Categorical))
	for i, f := range p.art.Categorical {
		cells[i] = normalized[f]
	}
	imputed, err := p.art.Imputer.Transform(p.art.Categorical, cells)
	if err != nil {
		return nil, err
	}
	if len(imputed) != len(p.art.Categorical) {
		return nil, &domain.ShapeMismatchError{Stage: "imputer", Got: len(imputed), Want: len(p.art.Categorical)}
	}
	for i, f := range p.art.Categorical {
		normalized[f] = imputed[i]
	}

	row := p.art.Encoding.Encode(normalized)
	x := domain.Coerce(domain.Align(row, p.art.Manifest))
	if len(x) != p.art.Manifest.Width() {
		return nil, &domain.ShapeMismatchError{Stage: "pipeline", Got: len(x), Want: p.art.Manifest.Width()}
	}
	for i, f := range x {
		if math.IsInf(f, 0) {
			return nil, &domain.NonFiniteFeatureError{Column: p.art.Manifest[i], Value: f}
		}
	}
	return x, nil
}

// Predict implements Forecaster.
func (p *Predictor) Predict(_ context.Context, rec domain.InputRecord) (domain.PredictionResult, error) {
	start := time.Now()
	result, err := p.predict(rec)
	if err != nil {
		p.metrics.PredictionErrors.WithLabelValues(ErrorKind(err)).Inc()
		return domain.PredictionResult{}, err
	}
	p.metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	p.metrics.Predictions.WithLabelValues(strconv.Itoa(result.Prediction)).Inc()
	p.metrics.RiskLevels.WithLabelValues(string(result.RiskLevel)).Inc()
	return result, nil
}

func (p *Predictor) predict(rec domain.InputRecord) (domain.PredictionResult, error) {
	x, err := p.Features(rec)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	scaled, err := p.art.Scaler.Transform(x)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	label, proba, err := p.classify(scaled)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	if label != 0 && label != 1 {
		return domain.PredictionResult{}, fmt.Errorf("classifier returned label %d, expected 0 or 1", label)
	}
	if math.IsNaN(proba) || proba < 0 || proba > 1 {
		return domain.PredictionResult{}, fmt.Errorf("classifier returned probability %v outside [0, 1]", proba)
	}

	return domain.BuildResult(label, proba*100), nil
}

// classify returns the label and positive-class probability, in one call when
// the classifier is a Scorer.
func (p *Predictor) classify(x domain.FeatureVector) (int, float64, error) {
	if s, ok := p.art.Classifier.(domain.Scorer); ok {
		return s.Score(x)
	}
	label, err := p.art.Classifier.Predict(x)
	if err != nil {
		return 0, 0, err
	}
	est, ok := p.art.Classifier.(domain.ProbabilityEstimator)
	if !ok {
		// Without probability support the probability degenerates to the label.
		return label, float64(label), nil
	}
	proba, err := est.PredictProba(x)
	if err != nil {
		return 0, 0, err
	}
	return label, proba, nil
}

// ErrorKind classifies a prediction failure for metrics and logs.
func ErrorKind(err error) string {
	var imputation *domain.ImputationError
	var shape *domain.ShapeMismatchError
	var nonFinite *domain.NonFiniteFeatureError
	switch {
	case errors.Is(err, domain.ErrMalformedRequest):
		return "malformed"
	case errors.As(err, &imputation):
		return "imputation"
	case errors.As(err, &shape):
		return "shape"
	case errors.As(err, &nonFinite):
		return "non_finite"
	default:
		return "internal"
	}
}
