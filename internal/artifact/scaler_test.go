package artifact

import (
	"errors"
	"testing"

	"github.com/couchcryptid/rain-forecast-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScaler(t *testing.T) {
	s, err := DecodeScaler([]byte(`{"feature_names_in":["a","b"],"mean":[1,10],"scale":[2,0]}`))
	require.NoError(t, err)

	assert.Equal(t, domain.Manifest{"a", "b"}, s.Manifest())
	assert.Equal(t, 2, s.Width())

	out, err := s.Transform(domain.FeatureVector{5, 12})
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureVector{2, 2}, out, "zero scale is treated as unit scale")
}

func TestDecodeScaler_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad json":         `{`,
		"no columns":       `{"feature_names_in":[],"mean":[],"scale":[]}`,
		"duplicate column": `{"feature_names_in":["a","a"],"mean":[0,0],"scale":[1,1]}`,
		"short mean":       `{"feature_names_in":["a","b"],"mean":[0],"scale":[1,1]}`,
		"short scale":      `{"feature_names_in":["a","b"],"mean":[0,0],"scale":[1]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeScaler([]byte(body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "decode scaler")
		})
	}
}

func TestStandardScaler_WidthMismatch(t *testing.T) {
	s, err := DecodeScaler([]byte(`{"feature_names_in":["a","b"],"mean":[0,0],"scale":[1,1]}`))
	require.NoError(t, err)

	_, err = s.Transform(domain.FeatureVector{1, 2, 3})
	var shapeErr *domain.ShapeMismatchError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, 3, shapeErr.Got)
	assert.Equal(t, 2, shapeErr.Want)
}

func TestStandardScaler_DoesNotMutateInput(t *testing.T) {
	s, err := DecodeScaler([]byte(`{"feature_names_in":["a"],"mean":[1],"scale":[1]}`))
	require.NoError(t, err)

	in := domain.FeatureVector{3}
	_, err = s.Transform(in)
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureVector{3}, in)
}
