package forecast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonalSmoothingConstantSeries(t *testing.T) {
	m := NewSeasonalSmoothing(12)

	qty := make([]float64, 24)
	for i := range qty {
		qty[i] = 20
	}

	out, err := m.Forecast(qty, 6)
	require.NoError(t, err)
	require.Len(t, out, 6)
	for _, v := range out {
		assert.InDelta(t, 20.0, v, 1e-9)
	}
}

func TestSeasonalSmoothingTracksSeasonalPattern(t *testing.T) {
	m := NewSeasonalSmoothing(12)

	// Two years of a fixed monthly pattern with a December peak.
	pattern := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 50}
	qty := append(append([]float64{}, pattern...), pattern...)

	out, err := m.Forecast(qty, 12)
	require.NoError(t, err)

	// The December forecast should sit well above the rest of the year.
	december := out[11]
	for i := 0; i < 11; i++ {
		assert.Greater(t, december, out[i])
	}
}

func TestSeasonalSmoothingNeedsFullSeason(t *testing.T) {
	m := NewSeasonalSmoothing(12)

	_, err := m.Forecast([]float64{1, 2, 3}, 6)
	assert.True(t, errors.Is(err, ErrCannotFit))
}

func TestSeasonalSmoothingShortSeasonDefault(t *testing.T) {
	m := NewSeasonalSmoothing(0)
	assert.Equal(t, 12, m.SeasonLen)
}
