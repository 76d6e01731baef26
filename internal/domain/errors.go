package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRequest is returned when an observation is not a JSON object.
var ErrMalformedRequest = errors.New("observation is not a JSON object")

// ImputationError reports a column set the imputer was not fitted on.
type ImputationError struct {
	Columns []string
	Fitted  []string
}

func (e *ImputationError) Error() string {
	for _, c := range e.Columns {
		if !contains(e.Fitted, c) {
			return fmt.Sprintf("imputer was not fitted on column %q", c)
		}
	}
	return fmt.Sprintf("imputer expects columns [%s], got [%s]",
		strings.Join(e.Fitted, ", "), strings.Join(e.Columns, ", "))
}

// ShapeMismatchError reports a feature vector whose width differs from the
// width a stage was fitted on.
type ShapeMismatchError struct {
	Stage string
	Got   int
	Want  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: feature vector has %d columns, expected %d", e.Stage, e.Got, e.Want)
}

// NonFiniteFeatureError reports a feature that coerced to ±Inf, which the
// scaler cannot standardize.
type NonFiniteFeatureError struct {
	Column string
	Value  float64
}

func (e *NonFiniteFeatureError) Error() string {
	return fmt.Sprintf("input contains infinity in column %q (%v)", e.Column, e.Value)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
