package domain

import (
	"errors"
	"fmt"
)

// Manifest is the ordered list of feature columns fixed when the scaler was
// fitted. It is loaded once at startup and never modified.
type Manifest []string

// NewManifest validates cols and returns them as a Manifest. Columns must be
// non-empty and unique.
func NewManifest(cols []string) (Manifest, error) {
	if len(cols) == 0 {
		return nil, errors.New("manifest has no columns")
	}
	seen := make(map[string]struct{}, len(cols))
	for i, c := range cols {
		if c == "" {
			return nil, fmt.Errorf("manifest column %d has an empty name", i)
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("manifest column %q appears more than once", c)
		}
		seen[c] = struct{}{}
	}
	m := make(Manifest, len(cols))
	copy(m, cols)
	return m, nil
}

// Width is the number of columns, which is also the feature vector length.
func (m Manifest) Width() int { return len(m) }
