// internal/stats/stats.go
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Median returns the median of xs (mean of the two middle values for even
// samples), 0 for an empty slice.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Quantile returns the p-quantile of xs, linearly interpolating the
// empirical CDF.
func Quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// NonZero returns the nonzero values of xs in their original order.
func NonZero(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, v := range xs {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

// Tail returns the last n values of xs (all of xs when n >= len).
func Tail(xs []float64, n int) []float64 {
	if n >= len(xs) {
		return xs
	}
	return xs[len(xs)-n:]
}

// WinsorizedMedian clips the sample at median ± 1.5×IQR before taking the
// median again, damping one-off spikes in sparse demand histories.
// Returns 0 for an empty sample.
func WinsorizedMedian(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	q1 := Quantile(xs, 0.25)
	med := Median(xs)
	q3 := Quantile(xs, 0.75)
	iqr := q3 - q1

	lo := med - 1.5*iqr
	hi := med + 1.5*iqr

	clipped := make([]float64, len(xs))
	for i, v := range xs {
		switch {
		case v < lo:
			clipped[i] = lo
		case v > hi:
			clipped[i] = hi
		default:
			clipped[i] = v
		}
	}
	return Median(clipped)
}
