// internal/timeseries/builder.go
package timeseries

import (
	"sort"
	"time"

	"github.com/planwise/buyouts-forecast/internal/domain"
	"github.com/planwise/buyouts-forecast/pkg/logger"
)

// TrailingMonths is the length of the rolling window, ending at the run
// month inclusive, over which all classification statistics are computed.
const TrailingMonths = 12

// Calendar anchors every window and horizon computation to a single
// normalized run date, so a run is deterministic for a given date and input.
type Calendar struct {
	FirstRun time.Time // run date truncated to the first day of its month
	Horizon  int       // number of future months to forecast
}

// NewCalendar normalizes runDate to month start and fixes the horizon length.
func NewCalendar(runDate time.Time, horizon int) Calendar {
	return Calendar{
		FirstRun: MonthStart(runDate),
		Horizon:  horizon,
	}
}

// MonthStart truncates t to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths advances a month-start date by n calendar months.
func AddMonths(t time.Time, n int) time.Time {
	return MonthStart(t).AddDate(0, n, 0)
}

// TrailStart is the first month of the trailing analysis window.
func (c Calendar) TrailStart() time.Time {
	return AddMonths(c.FirstRun, -(TrailingMonths - 1))
}

// HorizonPeriods lists the contiguous forecast months, starting the month
// after the run month.
func (c Calendar) HorizonPeriods() []time.Time {
	periods := make([]time.Time, c.Horizon)
	for i := 0; i < c.Horizon; i++ {
		periods[i] = AddMonths(c.FirstRun, i+1)
	}
	return periods
}

// ReferenceYear is the calendar year used for the one-off exception rule,
// two years before the run year so that the two following years are
// observable in history.
func (c Calendar) ReferenceYear() int {
	return c.FirstRun.Year() - 2
}

// Build normalizes raw observations into per-SKU series ordered by month,
// keeping only history up to and including the run month. A duplicate
// (SKU, month) pair is a data-quality problem; the last write wins and the
// collision is logged. SKUs whose entire history falls after the run month
// still appear, with an empty series.
func Build(observations []domain.Observation, cal Calendar) map[string]*domain.Series {
	byKey := make(map[string]map[time.Time]float64)
	seen := make(map[string]bool)

	for _, obs := range observations {
		seen[obs.SKU] = true
		date := MonthStart(obs.Date)
		if date.After(cal.FirstRun) {
			continue
		}
		months, ok := byKey[obs.SKU]
		if !ok {
			months = make(map[time.Time]float64)
			byKey[obs.SKU] = months
		}
		if _, dup := months[date]; dup {
			logger.Log.Warn().
				Str("sku", obs.SKU).
				Str("month", date.Format("2006-01")).
				Msg("duplicate observation for month, keeping last value")
		}
		months[date] = obs.Qty
	}

	series := make(map[string]*domain.Series, len(seen))
	for sku := range seen {
		s := &domain.Series{SKU: sku}
		for date, qty := range byKey[sku] {
			s.Points = append(s.Points, domain.Observation{SKU: sku, Date: date, Qty: qty})
		}
		sort.Slice(s.Points, func(i, j int) bool {
			return s.Points[i].Date.Before(s.Points[j].Date)
		})
		series[sku] = s
	}
	return series
}

// Window returns the quantities of s observed in [from, to] inclusive,
// in chronological order.
func Window(s *domain.Series, from, to time.Time) []float64 {
	var out []float64
	for _, p := range s.Points {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		out = append(out, p.Qty)
	}
	return out
}

// LastKnownActual returns the most recent nonzero observation at or before
// the run month, 0 when the SKU never had demand.
func LastKnownActual(s *domain.Series, cal Calendar) float64 {
	for i := len(s.Points) - 1; i >= 0; i-- {
		p := s.Points[i]
		if p.Date.After(cal.FirstRun) {
			continue
		}
		if p.Qty > 0 {
			return p.Qty
		}
	}
	return 0
}

// AnnualFrequencies counts hit months per calendar year for every SKU.
func AnnualFrequencies(series map[string]*domain.Series) map[string]domain.AnnualFrequency {
	out := make(map[string]domain.AnnualFrequency, len(series))
	for sku, s := range series {
		counts := make(map[int]int)
		for _, p := range s.Points {
			if p.Qty > 0 {
				counts[p.Date.Year()]++
			}
		}
		out[sku] = domain.AnnualFrequency{SKU: sku, Counts: counts}
	}
	return out
}
