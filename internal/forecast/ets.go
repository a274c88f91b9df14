// internal/forecast/ets.go
package forecast

import "fmt"

// SeasonalSmoothing is a triple exponential smoothing model with additive
// seasonality, used for continuous-demand SKUs. It needs at least one full
// season of history to initialize.
type SeasonalSmoothing struct {
	Alpha     float64 // level smoothing (0-1)
	Beta      float64 // trend smoothing (0-1)
	Gamma     float64 // seasonal smoothing (0-1)
	SeasonLen int     // points per season, 12 for monthly data
}

// NewSeasonalSmoothing creates the continuous-demand model with the given
// season length.
func NewSeasonalSmoothing(seasonLen int) *SeasonalSmoothing {
	if seasonLen < 2 {
		seasonLen = 12
	}
	return &SeasonalSmoothing{
		Alpha:     0.3,
		Beta:      0.1,
		Gamma:     0.2,
		SeasonLen: seasonLen,
	}
}

func (m *SeasonalSmoothing) Name() string { return "ets" }

// Forecast fits level, trend and seasonal components over qty and projects
// h steps ahead.
func (m *SeasonalSmoothing) Forecast(qty []float64, h int) ([]float64, error) {
	if len(qty) < m.SeasonLen {
		return nil, fmt.Errorf("%w: need %d observations, have %d", ErrCannotFit, m.SeasonLen, len(qty))
	}

	seasonal := make([]float64, m.SeasonLen)
	copy(seasonal, qty[:m.SeasonLen])

	// Initial level is the first-season mean, seasonal components are the
	// deviations from it, trend starts flat.
	var level float64
	for _, v := range seasonal {
		level += v
	}
	level /= float64(m.SeasonLen)
	for i := range seasonal {
		seasonal[i] -= level
	}
	trend := 0.0

	for i := m.SeasonLen; i < len(qty); i++ {
		idx := i % m.SeasonLen
		prevLevel := level
		level = m.Alpha*(qty[i]-seasonal[idx]) + (1-m.Alpha)*(prevLevel+trend)
		trend = m.Beta*(level-prevLevel) + (1-m.Beta)*trend
		seasonal[idx] = m.Gamma*(qty[i]-level) + (1-m.Gamma)*seasonal[idx]
	}

	out := make([]float64, h)
	for step := 1; step <= h; step++ {
		idx := (len(qty) + step - 1) % m.SeasonLen
		out[step-1] = level + float64(step)*trend + seasonal[idx]
	}
	return out, nil
}
