package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// FeatureVector is a row of float64 features positionally aligned to a Manifest.
type FeatureVector []float64

// Coerce converts aligned cells to a FeatureVector. It never fails.
func Coerce(cells []Value) FeatureVector {
	out := make(FeatureVector, len(cells))
	for i, v := range cells {
		out[i] = CoerceValue(v)
	}
	return out
}

// CoerceValue converts a single cell to float64. Decimal strings and the
// infinity spellings are parsed; null, NaN, hex floats, digit separators and
// anything else unparseable become 0. Infinite values pass through and are
// rejected before scaling.
func CoerceValue(v Value) float64 {
	var f float64
	switch v.Kind() {
	case KindNumber:
		f, _ = v.Float()
	case KindString:
		s, _ := v.Str()
		s = strings.TrimSpace(s)
		if strings.ContainsAny(s, "_xX") {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) {
		return 0
	}
	return f
}
