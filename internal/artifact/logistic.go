package artifact

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
)

// LogisticClassifier is a fitted binary logistic regression. Read-only after
// loading and safe for concurrent use.
type LogisticClassifier struct {
	coef      []float64
	intercept float64
}

// labelOnlyClassifier hides PredictProba for models exported without
// probability support.
type labelOnlyClassifier struct {
	inner *LogisticClassifier
}

func (c labelOnlyClassifier) Predict(x domain.FeatureVector) (int, error) { return c.inner.Predict(x) }
func (c labelOnlyClassifier) Width() int { return c.inner.Width() }

type classifierFile struct {
	Type        string    `json:"type"`
	Coef        []float64 `json:"coef"`
	Intercept   float64   `json:"intercept"`
	Probability *bool     `json:"probability"`
}

// DecodeClassifier parses a JSON classifier artifact. The returned classifier
// implements domain.ProbabilityEstimator unless the artifact sets
// "probability": false.
func DecodeClassifier(data []byte) (domain.Classifier, error) {
	var f classifierFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode classifier: %w", err)
	}
	if f.Type != "logistic_regression" {
		return nil, fmt.Errorf("decode classifier: unsupported type %q", f.Type)
	}
	if len(f.Coef) == 0 {
		return nil, fmt.Errorf("decode classifier: no coefficients")
	}

	c := &LogisticClassifier{coef: f.Coef, intercept: f.Intercept}
	if f.Probability != nil && !*f.Probability {
		return labelOnlyClassifier{inner: c}, nil
	}
	return c, nil
}

// Width is the number of features the model was fitted on.
func (c *LogisticClassifier) Width() int { return len(c.coef) }

// Predict returns 1 when the decision function is positive.
func (c *LogisticClassifier) Predict(x domain.FeatureVector) (int, error) {
	z, err := c.decision(x)
	if err != nil {
		return 0, err
	}
	if z > 0 {
		return 1, nil
	}
	return 0, nil
}

// PredictProba returns the probability of rain, in [0, 1].
func (c *LogisticClassifier) PredictProba(x domain.FeatureVector) (float64, error) {
	z, err := c.decision(x)
	if err != nil {
		return 0, err
	}
	return sigmoid(z), nil
}

func (c *LogisticClassifier) decision(x domain.FeatureVector) (float64, error) {
	if len(x) != len(c.coef) {
		return 0, &domain.ShapeMismatchError{Stage: "classifier", Got: len(x), Want: len(c.coef)}
	}
	z := c.intercept
	for i, v := range x {
		z += c.coef[i] * v
	}
	return z, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
