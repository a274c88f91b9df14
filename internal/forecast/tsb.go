// internal/forecast/tsb.go
package forecast

import "fmt"

// TSB is the Teunter-Syntetos-Babai intermittent-demand model. It smooths
// demand probability and demand size separately and forecasts their product,
// which stays responsive when a SKU's demand lapses entirely.
type TSB struct {
	AlphaDemand float64 // demand-size smoothing
	AlphaProb   float64 // demand-probability smoothing
}

// NewTSB creates the intermittent-demand model with both smoothing
// parameters, conventionally around 0.3.
func NewTSB(alphaDemand, alphaProb float64) *TSB {
	return &TSB{AlphaDemand: alphaDemand, AlphaProb: alphaProb}
}

func (m *TSB) Name() string { return "tsb" }

// Forecast returns a flat h-step forecast of probability × size.
func (m *TSB) Forecast(qty []float64, h int) ([]float64, error) {
	if len(qty) == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrCannotFit)
	}
	if m.AlphaDemand < 0 || m.AlphaDemand > 1 || m.AlphaProb < 0 || m.AlphaProb > 1 {
		return nil, fmt.Errorf("%w: smoothing parameters must be in [0,1]", ErrCannotFit)
	}

	// Initialize from the whole history: hit rate and mean nonzero size.
	var hits int
	var sizeSum float64
	for _, v := range qty {
		if v > 0 {
			hits++
			sizeSum += v
		}
	}
	prob := float64(hits) / float64(len(qty))
	size := 0.0
	if hits > 0 {
		size = sizeSum / float64(hits)
	}

	for _, v := range qty {
		if v > 0 {
			size += m.AlphaDemand * (v - size)
			prob += m.AlphaProb * (1 - prob)
		} else {
			prob += m.AlphaProb * (0 - prob)
		}
	}

	out := make([]float64, h)
	for i := range out {
		out[i] = prob * size
	}
	return out, nil
}
