package forecast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTSBFlatForecastOfProbabilityTimesSize(t *testing.T) {
	m := NewTSB(0.3, 0.3)

	out, err := m.Forecast([]float64{0, 10, 0, 10, 0, 10}, 4)
	require.NoError(t, err)
	require.Len(t, out, 4)

	// The forecast is flat across the horizon.
	for _, v := range out[1:] {
		assert.Equal(t, out[0], v)
	}
	// Half the periods demand ~10 units, so the rate sits between 0 and 10.
	assert.Greater(t, out[0], 0.0)
	assert.Less(t, out[0], 10.0)
}

func TestTSBConstantDemandConvergesToLevel(t *testing.T) {
	m := NewTSB(0.3, 0.3)

	out, err := m.Forecast([]float64{5, 5, 5, 5, 5, 5, 5, 5}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, out[0], 0.5)
}

func TestTSBAllZeroSeriesForecastsZero(t *testing.T) {
	m := NewTSB(0.3, 0.3)

	out, err := m.Forecast([]float64{0, 0, 0, 0}, 3)
	require.NoError(t, err)
	for _, v := range out {
		assert.Equal(t, 0.0, v)
	}
}

func TestTSBEmptySeriesCannotFit(t *testing.T) {
	m := NewTSB(0.3, 0.3)

	_, err := m.Forecast(nil, 3)
	assert.True(t, errors.Is(err, ErrCannotFit))
}

func TestTSBRejectsOutOfRangeParameters(t *testing.T) {
	m := NewTSB(1.5, 0.3)

	_, err := m.Forecast([]float64{1, 2, 3}, 3)
	assert.True(t, errors.Is(err, ErrCannotFit))
}
