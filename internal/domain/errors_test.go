package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImputationError_Message(t *testing.T) {
	err := &ImputationError{Columns: []string{"RainToday", "Location"}, Fitted: []string{"RainToday"}}
	assert.Equal(t, `imputer was not fitted on column "Location"`, err.Error())

	err = &ImputationError{Columns: []string{"b", "a"}, Fitted: []string{"a", "b"}}
	assert.Equal(t, "imputer expects columns [a, b], got [b, a]", err.Error())
}

func TestShapeMismatchError_Message(t *testing.T) {
	err := &ShapeMismatchError{Stage: "scaler", Got: 3, Want: 4}
	assert.Equal(t, "scaler: feature vector has 3 columns, expected 4", err.Error())
}

func TestNonFiniteFeatureError_Message(t *testing.T) {
	err := &NonFiniteFeatureError{Column: "Rainfall", Value: math.Inf(-1)}
	assert.Equal(t, `input contains infinity in column "Rainfall" (-Inf)`, err.Error())
}
