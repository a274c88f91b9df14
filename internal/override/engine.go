// internal/override/engine.go
package override

import (
	"math"

	"github.com/planwise/buyouts-forecast/internal/domain"
)

// Engine bounds raw model forecasts by regime-specific multiples of trailing
// statistics so forecasts never run far above recent real demand.
type Engine struct {
	capMult float64
}

// NewEngine creates a cap engine; capMult of 1.00 is a hard cap.
func NewEngine(capMult float64) *Engine {
	return &Engine{capMult: capMult}
}

// Apply converts one raw forecast value into its bounded override.
//
//   - True and Emerging Buy-Out: always 0, regardless of the model.
//   - Seasonal Buy-Out: the trailing median directly, not the model output.
//   - Everything else: min(base, C × capMult, lastKnown × capMult) where
//     C is 2×median12 for Spike-Driven and median12 otherwise.
//
// The result is never negative, NaN or infinite.
func (e *Engine) Apply(regime domain.Regime, base, median12, lastKnownActual float64) float64 {
	switch regime {
	case domain.RegimeTrueBuyOut, domain.RegimeEmergingBuyOut:
		return 0
	case domain.RegimeSeasonalBuyOut:
		return sanitize(median12)
	}

	capValue := median12
	if regime == domain.RegimeSpikeDrivenBuyOut {
		capValue = 2 * median12
	}

	v := math.Min(base, math.Min(capValue*e.capMult, lastKnownActual*e.capMult))
	return sanitize(v)
}

// ApplyAll rewrites raw forecast records in place with their overrides.
func (e *Engine) ApplyAll(
	records []domain.ForecastRecord,
	regimes map[string]domain.Regime,
	median12 map[string]float64,
	lastKnown map[string]float64,
) {
	for i := range records {
		r := &records[i]
		regime, ok := regimes[r.SKU]
		if !ok {
			regime = domain.RegimeTrueBuyOut
		}
		r.Value = e.Apply(regime, r.Value, median12[r.SKU], lastKnown[r.SKU])
	}
}

// sanitize collapses negative, NaN and infinite values to 0 so the engine
// never emits an undefined override.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
