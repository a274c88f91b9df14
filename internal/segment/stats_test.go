package segment

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/planwise/buyouts-forecast/internal/domain"
	"github.com/planwise/buyouts-forecast/internal/timeseries"
)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

// seriesFrom builds a series whose last quantity lands on the run month.
func seriesFrom(sku string, runMonth time.Time, qty []float64) *domain.Series {
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

func TestComputeStatsBasics(t *testing.T) {
	runMonth := month(2026, time.August)
	cal := timeseries.NewCalendar(runMonth, 6)

	s := seriesFrom("A", runMonth, []float64{0, 5, 5, 0, 10, 0, 0, 0, 0, 0, 0, 20})
	st := ComputeStats(s, cal)

	assert.Equal(t, 4, st.Hits)
	assert.Equal(t, 12, st.Periods)
	assert.InDelta(t, 4.0/12.0, st.HitRatio, 1e-9)
	assert.InDelta(t, 3.0, st.ADI, 1e-9)
	assert.Equal(t, 7.5, st.MedianQty) // median of 5,5,10,20
	assert.Equal(t, 20.0, st.MaxQty)
	assert.Equal(t, 40.0, st.TotalQty)
	assert.Equal(t, 2, st.MaxRun)
	assert.False(t, st.TailActive)
}

func TestComputeStatsIgnoresObservationsOutsideWindow(t *testing.T) {
	runMonth := month(2026, time.August)
	cal := timeseries.NewCalendar(runMonth, 6)

	s := &domain.Series{SKU: "A", Points: []domain.Observation{
		{SKU: "A", Date: month(2020, time.January), Qty: 999},
		{SKU: "A", Date: runMonth, Qty: 5},
	}}
	st := ComputeStats(s, cal)

	assert.Equal(t, 1, st.Hits)
	assert.Equal(t, 1, st.Periods)
	assert.Equal(t, 5.0, st.MaxQty)
}

func TestComputeStatsZeroHitsADIGuard(t *testing.T) {
	runMonth := month(2026, time.August)
	cal := timeseries.NewCalendar(runMonth, 6)

	s := seriesFrom("A", runMonth, []float64{0, 0, 0, 0})
	st := ComputeStats(s, cal)

	assert.Equal(t, 0, st.Hits)
	assert.Equal(t, 4.0, st.ADI) // hits replaced by 1: ADI degrades to periods
	assert.Equal(t, 0.0, st.MedianQty)
	assert.True(t, math.IsInf(st.MaxOverMedian(), 1), "zero median exceeds any ratio threshold")
}

func TestComputeStatsEmptySeries(t *testing.T) {
	cal := timeseries.NewCalendar(month(2026, time.August), 6)
	st := ComputeStats(&domain.Series{SKU: "EMPTY"}, cal)

	assert.Equal(t, 0, st.Hits)
	assert.Equal(t, 0, st.Periods)
	assert.False(t, st.TailActive)
}

func TestTailActiveRequiresThreeNonzeroMonths(t *testing.T) {
	runMonth := month(2026, time.August)
	cal := timeseries.NewCalendar(runMonth, 6)

	active := seriesFrom("A", runMonth, []float64{0, 0, 3, 1, 2})
	assert.True(t, ComputeStats(active, cal).TailActive)

	gap := seriesFrom("B", runMonth, []float64{0, 0, 3, 0, 2})
	assert.False(t, ComputeStats(gap, cal).TailActive)

	// A month missing from the series counts as inactive.
	missing := &domain.Series{SKU: "C", Points: []domain.Observation{
		{SKU: "C", Date: runMonth, Qty: 2},
		{SKU: "C", Date: timeseries.AddMonths(runMonth, -1), Qty: 4},
	}}
	assert.False(t, ComputeStats(missing, cal).TailActive)
}

func TestMedian12(t *testing.T) {
	runMonth := month(2026, time.August)
	cal := timeseries.NewCalendar(runMonth, 6)

	s := seriesFrom("A", runMonth, []float64{0, 4, 0, 8, 0, 6, 0, 0, 0, 0, 0, 0})
	assert.Equal(t, 6.0, Median12(s, cal, false))

	empty := seriesFrom("B", runMonth, []float64{0, 0, 0})
	assert.Equal(t, 0.0, Median12(empty, cal, false))
}
