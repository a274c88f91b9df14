// internal/report/report.go
package report

import (
	"fmt"
	"time"

	"github.com/planwise/buyouts-forecast/internal/pipeline"
	"github.com/planwise/buyouts-forecast/internal/timeseries"
)

// periodLabel is the column naming convention for month buckets, e.g.
// "2026-Sep".
func periodLabel(t time.Time) string {
	return t.Format("2006-Jan")
}

// Table is a wide, presentation-ready pivot of per-SKU values.
type Table struct {
	Columns []string
	Rows    [][]interface{}
}

// historyYears is how many calendar years of history the Individual sheet
// shows, starting at the reference year.
const historyYears = 3

// BuildIndividual pivots the historical demand into one row per SKU with a
// column per month, plus regime, safety stock and annual hit frequencies.
func BuildIndividual(res *pipeline.Result) Table {
	months := make([]time.Time, 0, historyYears*12)
	start := time.Date(res.ReferenceYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < historyYears*12; i++ {
		months = append(months, timeseries.AddMonths(start, i))
	}

	columns := []string{"SKU", "Description", "Business Rule", "Safety Stock"}
	for i := 0; i < historyYears; i++ {
		columns = append(columns, fmt.Sprintf("%d Frequency", res.ReferenceYear+i))
	}
	for _, m := range months {
		columns = append(columns, periodLabel(m))
	}

	rows := make([][]interface{}, 0, len(res.Assignments))
	for _, a := range res.Assignments {
		row := []interface{}{a.SKU, a.Description, string(a.Regime), a.SafetyStock}
		freq := res.Frequencies[a.SKU]
		for i := 0; i < historyYears; i++ {
			row = append(row, freq.Counts[res.ReferenceYear+i])
		}

		byMonth := make(map[time.Time]float64)
		if s, ok := res.Series[a.SKU]; ok {
			for _, p := range s.Points {
				byMonth[p.Date] = p.Qty
			}
		}
		for _, m := range months {
			row = append(row, byMonth[m])
		}
		rows = append(rows, row)
	}
	return Table{Columns: columns, Rows: rows}
}

// BuildOverrides pivots the capped forecast into one row per SKU with one
// column per horizon month.
func BuildOverrides(res *pipeline.Result) Table {
	periods := make([]time.Time, 0, res.Horizon)
	for i := 1; i <= res.Horizon; i++ {
		periods = append(periods, timeseries.AddMonths(res.FirstRun, i))
	}

	columns := []string{"SKU", "Description", "Business Rule", "Safety Stock"}
	for _, p := range periods {
		columns = append(columns, periodLabel(p))
	}

	values := make(map[string]map[time.Time]float64)
	for _, r := range res.Overrides {
		bySKU, ok := values[r.SKU]
		if !ok {
			bySKU = make(map[time.Time]float64, res.Horizon)
			values[r.SKU] = bySKU
		}
		bySKU[r.Period] = r.Value
	}

	rows := make([][]interface{}, 0, len(res.Assignments))
	for _, a := range res.Assignments {
		row := []interface{}{a.SKU, a.Description, string(a.Regime), a.SafetyStock}
		for _, p := range periods {
			row = append(row, values[a.SKU][p])
		}
		rows = append(rows, row)
	}
	return Table{Columns: columns, Rows: rows}
}
