package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
)

// StandardScaler standardizes each column with statistics fitted at training
// time: (x - mean) / scale. It is read-only after loading and safe for
// concurrent use.
type StandardScaler struct {
	manifest domain.Manifest
	mean     []float64
	scale    []float64
}

type scalerFile struct {
	FeatureNamesIn []string  `json:"feature_names_in"`
	Mean           []float64 `json:"mean"`
	Scale          []float64 `json:"scale"`
}

// DecodeScaler parses a scaler artifact. The column names it was fitted on
// become the manifest.
func DecodeScaler(data []byte) (*StandardScaler, error) {
	var f scalerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode scaler: %w", err)
	}

	manifest, err := domain.NewManifest(f.FeatureNamesIn)
	if err != nil {
		return nil, fmt.Errorf("decode scaler: %w", err)
	}
	if len(f.Mean) != len(manifest) || len(f.Scale) != len(manifest) {
		return nil, fmt.Errorf("decode scaler: %d columns but %d means and %d scales",
			len(manifest), len(f.Mean), len(f.Scale))
	}

	scale := make([]float64, len(f.Scale))
	for i, s := range f.Scale {
		// Constant columns are stored with scale 0; treat them as unit scale.
		if s == 0 {
			s = 1
		}
		scale[i] = s
	}

	return &StandardScaler{manifest: manifest, mean: f.Mean, scale: scale}, nil
}

// Manifest returns the ordered columns the scaler was fitted on.
func (s *StandardScaler) Manifest() domain.Manifest { return s.manifest }

// Width is the fitted feature count.
func (s *StandardScaler) Width() int { return len(s.mean) }

// Transform standardizes x into a new vector.
func (s *StandardScaler) Transform(x domain.FeatureVector) (domain.FeatureVector, error) {
	if len(x) != len(s.mean) {
		return nil, &domain.ShapeMismatchError{Stage: "scaler", Got: len(x), Want: len(s.mean)}
	}
	out := make(domain.FeatureVector, len(x))
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}
