package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.Predictions.WithLabelValues("1").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(a.Predictions.WithLabelValues("1")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.Predictions.WithLabelValues("1")), 0)
}

func TestNewMetrics_RegistersWithDefaultRegistry(t *testing.T) {
	m := NewMetrics()
	m.ArtifactsLoaded.Set(1)
	m.RiskLevels.WithLabelValues("Moderate Risk").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["rain_forecast_artifacts_loaded"])
	assert.True(t, names["rain_forecast_risk_levels_total"])
	assert.True(t, names["rain_forecast_pipeline_running"])
}
