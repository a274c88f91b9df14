package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/buyouts-forecast/internal/domain"
	"github.com/planwise/buyouts-forecast/internal/timeseries"
)

type failingModel struct{}

func (failingModel) Name() string { return "failing" }
func (failingModel) Forecast([]float64, int) ([]float64, error) {
	return nil, ErrCannotFit
}

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func buildSeries(sku string, runMonth time.Time, qty []float64) *domain.Series {
	s := &domain.Series{SKU: sku}
	for i, q := range qty {
		s.Points = append(s.Points, domain.Observation{
			SKU:  sku,
			Date: timeseries.AddMonths(runMonth, i-len(qty)+1),
			Qty:  q,
		})
	}
	return s
}

func TestRouterEmitsFullHorizonForEverySKU(t *testing.T) {
	runMonth := month(2026, time.August)
	cal := timeseries.NewCalendar(runMonth, 5)

	flat := make([]float64, 24)
	for i := range flat {
		flat[i] = 10
	}

	series := map[string]*domain.Series{
		"HIGH":  buildSeries("HIGH", runMonth, flat),
		"INT":   buildSeries("INT", runMonth, []float64{0, 3, 0, 0, 4, 0}),
		"TRUE":  buildSeries("TRUE", runMonth, []float64{0, 0, 5}),
		"SEAS":  buildSeries("SEAS", runMonth, []float64{2, 2, 0, 0, 2, 2}),
		"EMPTY": {SKU: "EMPTY"},
	}
	regimes := map[string]domain.Regime{
		"HIGH":  domain.RegimeHighRunRate,
		"INT":   domain.RegimeIntermittentBuyOut,
		"TRUE":  domain.RegimeTrueBuyOut,
		"SEAS":  domain.RegimeSeasonalBuyOut,
		"EMPTY": domain.RegimeTrueBuyOut,
	}
	median12 := map[string]float64{"HIGH": 10, "INT": 3.5, "TRUE": 5, "SEAS": 2}

	r := NewRouter(NewSeasonalSmoothing(12), NewTSB(0.3, 0.3))
	records := r.Run(series, regimes, median12, cal)

	require.Len(t, records, 5*5)

	perSKU := make(map[string][]domain.ForecastRecord)
	for _, rec := range records {
		perSKU[rec.SKU] = append(perSKU[rec.SKU], rec)
	}
	periods := cal.HorizonPeriods()
	for sku, recs := range perSKU {
		require.Len(t, recs, 5, "sku %s must cover the full horizon", sku)
		for i, rec := range recs {
			assert.Equal(t, periods[i], rec.Period, "sku %s periods must be contiguous", sku)
		}
	}

	// Zero regimes and the seasonal placeholder never invoke a model.
	for _, sku := range []string{"TRUE", "SEAS", "EMPTY"} {
		for _, rec := range perSKU[sku] {
			assert.Equal(t, 0.0, rec.Value)
		}
	}
}

func TestRouterFallsBackToMedianWhenModelCannotFit(t *testing.T) {
	runMonth := month(2026, time.August)
	cal := timeseries.NewCalendar(runMonth, 4)

	// Too short for a 12-month season: the continuous model cannot fit.
	series := map[string]*domain.Series{
		"HIGH": buildSeries("HIGH", runMonth, []float64{9, 9, 9}),
	}
	regimes := map[string]domain.Regime{"HIGH": domain.RegimeHighRunRate}
	median12 := map[string]float64{"HIGH": 9}

	r := NewRouter(NewSeasonalSmoothing(12), NewTSB(0.3, 0.3))
	records := r.Run(series, regimes, median12, cal)

	require.Len(t, records, 4)
	for _, rec := range records {
		assert.Equal(t, 9.0, rec.Value)
	}
}

func TestRouterGroupFailureDegradesPerSKU(t *testing.T) {
	runMonth := month(2026, time.August)
	cal := timeseries.NewCalendar(runMonth, 3)

	series := map[string]*domain.Series{
		"A": buildSeries("A", runMonth, []float64{0, 2, 0, 2}),
		"B": buildSeries("B", runMonth, []float64{0, 6, 0, 6}),
	}
	regimes := map[string]domain.Regime{
		"A": domain.RegimeIntermittentBuyOut,
		"B": domain.RegimeSpikeDrivenBuyOut,
	}
	median12 := map[string]float64{"A": 2, "B": 6}

	r := NewRouter(failingModel{}, failingModel{})
	records := r.Run(series, regimes, median12, cal)

	require.Len(t, records, 6)
	for _, rec := range records {
		assert.Equal(t, median12[rec.SKU], rec.Value, "fallback must be each SKU's own median")
	}
}

func TestRouterDeterministicOrdering(t *testing.T) {
	runMonth := month(2026, time.August)
	cal := timeseries.NewCalendar(runMonth, 2)

	series := map[string]*domain.Series{
		"B": buildSeries("B", runMonth, []float64{1}),
		"A": buildSeries("A", runMonth, []float64{1}),
	}
	regimes := map[string]domain.Regime{
		"B": domain.RegimeTrueBuyOut,
		"A": domain.RegimeTrueBuyOut,
	}

	records := NewRouter(NewSeasonalSmoothing(12), NewTSB(0.3, 0.3)).
		Run(series, regimes, nil, cal)

	require.Len(t, records, 4)
	assert.Equal(t, "A", records[0].SKU)
	assert.Equal(t, "A", records[1].SKU)
	assert.Equal(t, "B", records[2].SKU)
}
