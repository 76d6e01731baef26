package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
)

// SimpleImputer replaces nulls with a per-column fill value learned at fit
// time: the most frequent training value, or a fixed constant. Read-only after
// loading.
type SimpleImputer struct {
	columns    []string
	statistics []domain.Value
}

type imputerFile struct {
	FeatureNamesIn []string       `json:"feature_names_in"`
	Strategy       string         `json:"strategy"`
	Statistics     []domain.Value `json:"statistics"`
}

// DecodeImputer parses an imputer artifact.
func DecodeImputer(data []byte) (*SimpleImputer, error) {
	var f imputerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode imputer: %w", err)
	}
	if f.Strategy != "" && f.Strategy != "most_frequent" && f.Strategy != "constant" {
		return nil, fmt.Errorf("decode imputer: unsupported strategy %q", f.Strategy)
	}
	if len(f.FeatureNamesIn) == 0 {
		return nil, fmt.Errorf("decode imputer: no columns")
	}
	if len(f.Statistics) != len(f.FeatureNamesIn) {
		return nil, fmt.Errorf("decode imputer: %d columns but %d statistics",
			len(f.FeatureNamesIn), len(f.Statistics))
	}
	for i, v := range f.Statistics {
		if v.IsNull() {
			return nil, fmt.Errorf("decode imputer: column %q has no fill value", f.FeatureNamesIn[i])
		}
	}
	return &SimpleImputer{columns: f.FeatureNamesIn, statistics: f.Statistics}, nil
}

// Columns returns the fitted column names in order.
func (m *SimpleImputer) Columns() []string {
	return append([]string(nil), m.columns...)
}

// Transform fills nulls in row. columns must match the fitted columns exactly.
func (m *SimpleImputer) Transform(columns []string, row []domain.Value) ([]domain.Value, error) {
	if !equalColumns(columns, m.columns) {
		return nil, &domain.ImputationError{Columns: columns, Fitted: m.Columns()}
	}
	if len(row) != len(columns) {
		return nil, &domain.ShapeMismatchError{Stage: "imputer", Got: len(row), Want: len(columns)}
	}
	out := make([]domain.Value, len(row))
	for i, v := range row {
		if v.IsNull() {
			v = m.statistics[i]
		}
		out[i] = v
	}
	return out, nil
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
