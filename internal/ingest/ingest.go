// internal/ingest/ingest.go
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/planwise/buyouts-forecast/internal/domain"
	"github.com/planwise/buyouts-forecast/internal/pipeline"
	"github.com/planwise/buyouts-forecast/internal/timeseries"
)

// LoadInputs reads the usage history and lead-time tables concurrently and
// returns the pipeline's input set. Either file being unreadable or missing
// required columns is fatal.
func LoadInputs(ctx context.Context, usagePath, leadTimePath string) (pipeline.Inputs, error) {
	var (
		observations []domain.Observation
		items        []domain.Item
		leadTimes    map[string]float64
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		observations, items, err = LoadUsage(usagePath)
		return err
	})
	g.Go(func() error {
		var err error
		leadTimes, err = LoadLeadTimes(leadTimePath)
		return err
	})
	if err := g.Wait(); err != nil {
		return pipeline.Inputs{}, err
	}

	return pipeline.Inputs{
		Observations: observations,
		Items:        items,
		LeadTimeDays: leadTimes,
	}, nil
}

// LoadUsage reads the historical usage table: one row per SKU and month with
// SKU, Description, Hist_Year, Hist_Period and Hist_Value columns. Header
// matching ignores case, spacing and separators.
func LoadUsage(path string) ([]domain.Observation, []domain.Item, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read usage file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("usage file %s is empty", path)
	}

	header := rows[0]
	idxSKU := colIndex(header, "sku")
	idxDesc := colIndex(header, "description")
	idxYear := colIndex(header, "hist_year", "year")
	idxPeriod := colIndex(header, "hist_period", "period", "month")
	idxQty := colIndex(header, "hist_value", "qty", "quantity")
	if idxSKU < 0 || idxYear < 0 || idxPeriod < 0 || idxQty < 0 {
		return nil, nil, fmt.Errorf("usage file %s is missing required columns (SKU, Hist_Year, Hist_Period, Hist_Value)", path)
	}

	var observations []domain.Observation
	seenItems := make(map[string]bool)
	var items []domain.Item
	for _, record := range rows[1:] {
		sku := get(record, idxSKU)
		if sku == "" {
			continue
		}
		year := int(parseFloat(record, idxYear))
		month := int(parseFloat(record, idxPeriod))
		if year == 0 || month < 1 || month > 12 {
			continue
		}
		qty := parseFloat(record, idxQty)
		if qty < 0 {
			qty = 0
		}
		observations = append(observations, domain.Observation{
			SKU:  sku,
			Date: timeseries.MonthStart(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)),
			Qty:  qty,
		})
		if !seenItems[sku] {
			seenItems[sku] = true
			items = append(items, domain.Item{SKU: sku, Description: get(record, idxDesc)})
		}
	}
	return observations, items, nil
}

// LoadLeadTimes reads the lead-time reference table: SKU and lead time in
// days ("Leadtime Level"). Unknown SKUs downstream simply get zero lead time.
func LoadLeadTimes(path string) (map[string]float64, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lead-time file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("lead-time file %s is empty", path)
	}

	header := rows[0]
	idxSKU := colIndex(header, "sku")
	idxDays := colIndex(header, "leadtime level", "leadtime_days", "lead time days", "leadtime")
	if idxSKU < 0 || idxDays < 0 {
		return nil, fmt.Errorf("lead-time file %s is missing required columns (SKU, Leadtime Level)", path)
	}

	out := make(map[string]float64)
	for _, record := range rows[1:] {
		sku := get(record, idxSKU)
		if sku == "" {
			continue
		}
		out[sku] = parseFloat(record, idxDays)
	}
	return out, nil
}

// readRows loads every row of a CSV file or of the first sheet of an XLSX
// workbook.
func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported file extension %s (csv and xlsx supported)", filepath.Ext(path))
	}
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	iter, err := f.Rows(sheets[0])
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var rows [][]string
	for iter.Next() {
		record, err := iter.Columns()
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, iter.Error()
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

// colIndex finds the first header cell matching any of the given names after
// normalization, -1 when absent.
func colIndex(header []string, names ...string) int {
	targets := make(map[string]struct{}, len(names))
	for _, name := range names {
		targets[normalizeColumnName(name)] = struct{}{}
	}
	for i, h := range header {
		if _, ok := targets[normalizeColumnName(h)]; ok {
			return i
		}
	}
	return -1
}

func get(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseFloat(record []string, idx int) float64 {
	v := get(record, idx)
	if v == "" {
		return 0
	}
	v = strings.ReplaceAll(v, ",", "")
	f, _ := strconv.ParseFloat(v, 64)
	return f
}
