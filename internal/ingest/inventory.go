// internal/ingest/inventory.go
package ingest

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/planwise/buyouts-forecast/internal/burndown"
)

var usageColumnRe = regexp.MustCompile(`^(\d{4})usage$`)

// LoadInventory reads the inventory detail table for the burn-down report:
// Item Number, Description, Avg Std Cost, Qty On Hand, Available Units and
// any number of "<year> Usage" columns. Returns the items and the usage
// years found in the header, ascending.
func LoadInventory(path string) ([]burndown.Item, []int, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read inventory file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("inventory file %s is empty", path)
	}

	header := rows[0]
	idxSKU := colIndex(header, "item number", "sku")
	idxDesc := colIndex(header, "description")
	idxCost := colIndex(header, "avg std cost", "avg cost")
	idxOnHand := colIndex(header, "qty on hand")
	idxAvail := colIndex(header, "available units (no poc)", "available units")
	if idxSKU < 0 || idxAvail < 0 {
		return nil, nil, fmt.Errorf("inventory file %s is missing required columns (Item Number, Available Units)", path)
	}

	// Usage columns are discovered from the header, not hard-coded years.
	usageCols := make(map[int]int)
	for i, h := range header {
		if m := usageColumnRe.FindStringSubmatch(normalizeColumnName(h)); m != nil {
			year, _ := strconv.Atoi(m[1])
			usageCols[year] = i
		}
	}
	years := make([]int, 0, len(usageCols))
	for y := range usageCols {
		years = append(years, y)
	}
	sort.Ints(years)

	var items []burndown.Item
	for _, record := range rows[1:] {
		sku := get(record, idxSKU)
		if sku == "" {
			continue
		}
		item := burndown.Item{
			SKU:            sku,
			Description:    get(record, idxDesc),
			AvgCost:        parseFloat(record, idxCost),
			QtyOnHand:      parseFloat(record, idxOnHand),
			AvailableUnits: parseFloat(record, idxAvail),
			UsageByYear:    make(map[int]float64, len(usageCols)),
		}
		for year, idx := range usageCols {
			item.UsageByYear[year] = parseFloat(record, idx)
		}
		items = append(items, item)
	}
	return items, years, nil
}
