// internal/segment/stats.go
package segment

import (
	"math"

	"github.com/planwise/buyouts-forecast/internal/domain"
	"github.com/planwise/buyouts-forecast/internal/stats"
	"github.com/planwise/buyouts-forecast/internal/timeseries"
)

// Stats holds the trailing-window statistics a SKU is classified on.
// They are recomputed fresh every run and never mutated incrementally.
type Stats struct {
	SKU        string
	Hits       int     // periods with Qty > 0 in the trailing window
	Periods    int     // observed periods in the trailing window
	HitRatio   float64 // Hits / Periods
	ADI        float64 // average demand interval: Periods per hit
	MedianQty  float64 // median of nonzero quantities, 0 when all zero
	MaxQty     float64 // largest single-period quantity
	TotalQty   float64 // total quantity in the window
	MaxRun     int     // longest consecutive run of nonzero periods
	TailActive bool    // all of the last 3 months nonzero
}

// MaxOverMedian is max_qty / median_qty with the zero-median case treated
// as exceeding any ratio threshold.
func (s Stats) MaxOverMedian() float64 {
	if s.MedianQty == 0 {
		return math.Inf(1)
	}
	return s.MaxQty / s.MedianQty
}

// ComputeStats derives the classification statistics for one SKU over the
// trailing window ending at the run month.
func ComputeStats(s *domain.Series, cal timeseries.Calendar) Stats {
	from, to := cal.TrailStart(), cal.FirstRun

	st := Stats{SKU: s.SKU}
	var run int
	var nonzero []float64
	for _, p := range s.Points {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		st.Periods++
		st.TotalQty += p.Qty
		if p.Qty > st.MaxQty {
			st.MaxQty = p.Qty
		}
		if p.Qty > 0 {
			st.Hits++
			nonzero = append(nonzero, p.Qty)
			run++
			if run > st.MaxRun {
				st.MaxRun = run
			}
		} else {
			run = 0
		}
	}

	st.MedianQty = stats.Median(nonzero)
	if st.Periods > 0 {
		st.HitRatio = float64(st.Hits) / float64(st.Periods)
	}
	// hits replaced by 1 when zero, so ADI degrades to the window length
	hits := st.Hits
	if hits == 0 {
		hits = 1
	}
	st.ADI = float64(st.Periods) / float64(hits)

	st.TailActive = tailActive(s, cal)
	return st
}

// tailActive reports whether each of the last 3 months up to the run month
// has a recorded nonzero quantity. A missing month counts as inactive.
func tailActive(s *domain.Series, cal timeseries.Calendar) bool {
	byMonth := make(map[int64]float64, 3)
	from := timeseries.AddMonths(cal.FirstRun, -2)
	for _, p := range s.Points {
		if p.Date.Before(from) || p.Date.After(cal.FirstRun) {
			continue
		}
		byMonth[p.Date.Unix()] = p.Qty
	}
	for i := 0; i < 3; i++ {
		qty, ok := byMonth[timeseries.AddMonths(cal.FirstRun, -i).Unix()]
		if !ok || qty <= 0 {
			return false
		}
	}
	return true
}

// Median12 is the median of the last 12 nonzero quantities in the trailing
// window, optionally winsorized. 0 when the SKU had no demand.
func Median12(s *domain.Series, cal timeseries.Calendar, winsorize bool) float64 {
	nonzero := stats.NonZero(timeseries.Window(s, cal.TrailStart(), cal.FirstRun))
	sample := stats.Tail(nonzero, 12)
	if winsorize {
		return stats.WinsorizedMedian(sample)
	}
	return stats.Median(sample)
}
