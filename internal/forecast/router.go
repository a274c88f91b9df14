// internal/forecast/router.go
package forecast

import (
	"sort"

	"github.com/planwise/buyouts-forecast/internal/domain"
	"github.com/planwise/buyouts-forecast/internal/timeseries"
	"github.com/planwise/buyouts-forecast/pkg/logger"
)

// Router dispatches each SKU's series to the model its regime calls for and
// assembles the raw per-period forecast table for the full horizon.
type Router struct {
	continuous   Forecaster // High Run-Rate
	intermittent Forecaster // Spike-Driven and Intermittent Buy-Out
}

// NewRouter wires the injected forecasting capabilities.
func NewRouter(continuous, intermittent Forecaster) *Router {
	return &Router{continuous: continuous, intermittent: intermittent}
}

// Run produces one record per (SKU, horizon period) for every classified SKU.
// True and Emerging Buy-Outs get constant zero without invoking a model;
// Seasonal Buy-Outs get zero here and are substituted downstream. A model
// that cannot fit degrades to a constant Median12 forecast for that SKU and
// never fails the run.
func (r *Router) Run(
	series map[string]*domain.Series,
	regimes map[string]domain.Regime,
	median12 map[string]float64,
	cal timeseries.Calendar,
) []domain.ForecastRecord {
	groups := make(map[domain.Regime][]string)
	for sku, regime := range regimes {
		groups[regime] = append(groups[regime], sku)
	}
	for _, skus := range groups {
		sort.Strings(skus)
	}

	periods := cal.HorizonPeriods()
	records := make([]domain.ForecastRecord, 0, len(regimes)*len(periods))

	emit := func(sku string, values []float64) {
		for i, period := range periods {
			records = append(records, domain.ForecastRecord{
				SKU:    sku,
				Period: period,
				Value:  values[i],
			})
		}
	}

	zeros := make([]float64, len(periods))
	for _, regime := range []domain.Regime{
		domain.RegimeTrueBuyOut,
		domain.RegimeEmergingBuyOut,
		domain.RegimeSeasonalBuyOut,
	} {
		for _, sku := range groups[regime] {
			emit(sku, zeros)
		}
	}

	r.forecastGroup(groups[domain.RegimeHighRunRate], r.continuous, series, median12, len(periods), emit)
	tsbSKUs := append(append([]string{}, groups[domain.RegimeSpikeDrivenBuyOut]...), groups[domain.RegimeIntermittentBuyOut]...)
	sort.Strings(tsbSKUs)
	r.forecastGroup(tsbSKUs, r.intermittent, series, median12, len(periods), emit)

	sort.Slice(records, func(i, j int) bool {
		if records[i].SKU != records[j].SKU {
			return records[i].SKU < records[j].SKU
		}
		return records[i].Period.Before(records[j].Period)
	})
	return records
}

// forecastGroup fits one regime group in a single pass. A SKU the model
// cannot fit falls back to its trailing median for every horizon period, so
// degenerate series still yield a full row set.
func (r *Router) forecastGroup(
	skus []string,
	model Forecaster,
	series map[string]*domain.Series,
	median12 map[string]float64,
	h int,
	emit func(string, []float64),
) {
	for _, sku := range skus {
		var qty []float64
		if s, ok := series[sku]; ok {
			qty = make([]float64, len(s.Points))
			for i, p := range s.Points {
				qty[i] = p.Qty
			}
		}

		values, err := model.Forecast(qty, h)
		if err != nil {
			logger.Log.Warn().
				Str("sku", sku).
				Str("model", model.Name()).
				Err(err).
				Msg("model could not fit series, falling back to trailing median")
			values = constant(median12[sku], h)
		}
		emit(sku, values)
	}
}

func constant(v float64, h int) []float64 {
	out := make([]float64, h)
	for i := range out {
		out[i] = v
	}
	return out
}
