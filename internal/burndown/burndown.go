// internal/burndown/burndown.go
package burndown

import (
	"fmt"
	"sort"
)

// Item is one inventory position to burn down against its trailing usage.
type Item struct {
	SKU            string
	Description    string
	AvgCost        float64
	QtyOnHand      float64
	AvailableUnits float64
	UsageByYear    map[int]float64
}

// Row is the burn-down result for one item.
type Row struct {
	Item
	AverageUsage   float64 // mean annual usage over the analysis years
	Excess         float64 // available units above safety stock, floored at 0
	Years          float64 // years to consume the excess at average usage
	NoRequirements bool    // no usage at all, excess never burns down
	Category       string
}

// Burn-down tier labels.
const (
	CategoryNoRequirements = "No Requirements"
	CategoryNoInventory    = "No Inventory"
	CategoryZeroToSix      = "0-6 Months"
	CategorySixToTwelve    = "6-12 Months"
	CategoryOneToTwo       = "1-2 Years"
	CategoryTwoToThree     = "2-3 Years"
	CategoryThreePlus      = "3+ Years"
)

// tiers is the ordered threshold table; the first limit at or above the
// burn-down years wins.
var tiers = []struct {
	limit float64
	label string
}{
	{0.5, CategoryZeroToSix},
	{1, CategorySixToTwelve},
	{2, CategoryOneToTwo},
	{3, CategoryTwoToThree},
}

// Categorize maps burn-down years onto a planning tier.
func Categorize(years float64, noRequirements bool) string {
	if noRequirements {
		return CategoryNoRequirements
	}
	if years == 0 {
		return CategoryNoInventory
	}
	for _, t := range tiers {
		if years <= t.limit {
			return t.label
		}
	}
	return CategoryThreePlus
}

// Analyze computes excess-to-safety-stock and burn-down classification for
// every item. safetyStock supplies the per-SKU floor; the analysis years
// select which annual usage figures feed the average.
func Analyze(items []Item, safetyStock func(sku string) float64, years []int) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		var usage float64
		for _, y := range years {
			usage += item.UsageByYear[y]
		}
		avg := 0.0
		if len(years) > 0 {
			avg = usage / float64(len(years))
		}

		excess := item.AvailableUnits - safetyStock(item.SKU)
		if excess < 0 {
			excess = 0
		}

		row := Row{
			Item:         item,
			AverageUsage: avg,
			Excess:       excess,
		}
		if avg == 0 {
			row.NoRequirements = true
		} else {
			row.Years = excess / avg
		}
		row.Category = Categorize(row.Years, row.NoRequirements)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].SKU < rows[j].SKU })
	return rows
}

// Summary counts rows per category, keyed by label.
func Summary(rows []Row) map[string]int {
	out := make(map[string]int)
	for _, r := range rows {
		out[r.Category]++
	}
	return out
}

// String implements a compact one-line description for logs.
func (r Row) String() string {
	return fmt.Sprintf("%s excess=%.0f avg=%.1f category=%s", r.SKU, r.Excess, r.AverageUsage, r.Category)
}
