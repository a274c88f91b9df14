// internal/report/excel.go
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/planwise/buyouts-forecast/internal/pipeline"
)

// Header colors, one per calendar year plus one for frequency columns.
const (
	colorYear1 = "C5D9F1"
	colorYear2 = "D8E4BC"
	colorYear3 = "92CDDC"
	colorFreq  = "F2DCDB"
)

// WriteWorkbook writes the three-sheet output workbook:
// Individual (history + safety stock), Overrides (capped forecast) and
// Adjusted (final adjusted forecast). Creates the target directory first.
func WriteWorkbook(path string, res *pipeline.Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	individual := BuildIndividual(res)
	overrides := BuildOverrides(res)

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newHeaderStyles(f)
	if err != nil {
		return err
	}

	if err := writeSheet(f, "Individual", individual, res.ReferenceYear, styles); err != nil {
		return err
	}
	if err := writeSheet(f, "Overrides", overrides, res.FirstRun.Year(), styles); err != nil {
		return err
	}
	// The adjusted forecast already includes the capping, so the sheet
	// mirrors Overrides for executive use.
	if err := writeSheet(f, "Adjusted", overrides, res.FirstRun.Year(), styles); err != nil {
		return err
	}

	f.DeleteSheet("Sheet1")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook %s: %w", path, err)
	}
	return nil
}

type headerStyles struct {
	year1, year2, year3, freq, plain int
}

func newHeaderStyles(f *excelize.File) (headerStyles, error) {
	mk := func(color string) (int, error) {
		style := &excelize.Style{Font: &excelize.Font{Bold: true}}
		if color != "" {
			style.Fill = excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
		}
		return f.NewStyle(style)
	}

	var s headerStyles
	var err error
	if s.year1, err = mk(colorYear1); err != nil {
		return s, err
	}
	if s.year2, err = mk(colorYear2); err != nil {
		return s, err
	}
	if s.year3, err = mk(colorYear3); err != nil {
		return s, err
	}
	if s.freq, err = mk(colorFreq); err != nil {
		return s, err
	}
	if s.plain, err = mk(""); err != nil {
		return s, err
	}
	return s, nil
}

func writeSheet(f *excelize.File, name string, table Table, baseYear int, styles headerStyles) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	for i, col := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(name, cell, cell, headerStyle(col, baseYear, styles)); err != nil {
			return err
		}
	}

	for r, row := range table.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// headerStyle picks the header fill: frequency columns get their own color,
// month columns are colored by calendar year relative to baseYear, and
// identity columns stay plain bold.
func headerStyle(column string, baseYear int, styles headerStyles) int {
	if strings.HasSuffix(column, "Frequency") {
		return styles.freq
	}
	year, ok := columnYear(column)
	if !ok {
		return styles.plain
	}
	switch {
	case year <= baseYear:
		return styles.year1
	case year == baseYear+1:
		return styles.year2
	default:
		return styles.year3
	}
}

// columnYear extracts the leading year of a "YYYY-Mon" period column.
func columnYear(column string) (int, bool) {
	parts := strings.SplitN(column, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	return year, true
}
