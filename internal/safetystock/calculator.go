// internal/safetystock/calculator.go
package safetystock

import (
	"math"

	"github.com/planwise/buyouts-forecast/internal/domain"
)

// daysPerMonth converts the lead-time table's day counts to months.
const daysPerMonth = 30.0

// Calculator derives per-SKU safety stock from trailing median usage and
// item lead time.
type Calculator struct {
	leadTimeDays map[string]float64 // SKU -> lead time in days
	oneOffSKUs   map[string]bool
}

// NewCalculator creates a calculator over the run's read-only lookup tables.
// A SKU absent from leadTimeDays is valid and yields zero safety stock.
func NewCalculator(leadTimeDays map[string]float64, oneOffSKUs map[string]bool) *Calculator {
	return &Calculator{
		leadTimeDays: leadTimeDays,
		oneOffSKUs:   oneOffSKUs,
	}
}

// Compute returns the safety stock for one SKU.
func (c *Calculator) Compute(sku string, regime domain.Regime, median12, maxQty float64) int {
	// 1. Base: trailing-12 median usage times lead time in months.
	leadMonths := c.leadTimeDays[sku] / daysPerMonth
	ss := int(math.Round(median12 * leadMonths))

	// 2. True Buy-Outs never stock more than their largest-ever month.
	if regime == domain.RegimeTrueBuyOut {
		if peak := int(maxQty); ss > peak {
			ss = peak
		}
	}

	// 3. One-off demand generates no standing inventory.
	if c.oneOffSKUs[sku] {
		return 0
	}

	if ss < 0 {
		return 0
	}
	return ss
}

// OneOffSKUs identifies SKUs whose demand appeared in at most two months of
// the reference year and never in the two years after it.
func OneOffSKUs(freqs map[string]domain.AnnualFrequency, referenceYear int) map[string]bool {
	out := make(map[string]bool)
	for sku, f := range freqs {
		if f.Counts[referenceYear] <= 2 &&
			f.Counts[referenceYear+1] == 0 &&
			f.Counts[referenceYear+2] == 0 {
			out[sku] = true
		}
	}
	return out
}
