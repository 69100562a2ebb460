package metrics

import (
	"errors"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, c.Write(&metric))

	return metric.GetCounter().GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.NotNil(t, r.EstimationsTotal)
	assert.NotNil(t, r.SimulationDuration)
	assert.NotNil(t, r.GetPrometheusRegistry())
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestRecordEstimation(t *testing.T) {
	r := NewRegistry()
	r.RecordEstimation(10*time.Millisecond, 3, 2, nil)
	r.RecordEstimation(time.Millisecond, 5, 5, errors.New("bad"))

	ok, err := r.EstimationsTotal.GetMetricWithLabelValues("ok")
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(t, ok))

	failed, err := r.EstimationsTotal.GetMetricWithLabelValues("error")
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(t, failed))

	disc, err := r.UndeterminedCellsTotal.GetMetricWithLabelValues("discrete")
	require.NoError(t, err)
	assert.Equal(t, 3.0, counterValue(t, disc))
}

func TestRecordSimulation(t *testing.T) {
	r := NewRegistry()
	r.RecordSimulation(time.Millisecond, 100, nil)
	r.RecordSimulation(time.Millisecond, 50, nil)
	r.RecordSimulation(time.Millisecond, 70, errors.New("cyclic"))
	r.RecordErsatz()

	assert.Equal(t, 150.0, counterValue(t, r.SimulatedRowsTotal))
	assert.Equal(t, 1.0, counterValue(t, r.ErsatzBinsTotal))

	families, err := r.GetPrometheusRegistry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["cgm_simulations_total"])
	assert.True(t, names["cgm_simulation_duration_seconds"])
}
