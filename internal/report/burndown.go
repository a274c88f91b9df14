// internal/report/burndown.go
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/planwise/buyouts-forecast/internal/burndown"
)

// WriteBurndown writes the single-sheet burn-down workbook.
func WriteBurndown(path string, rows []burndown.Row) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Burndown"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	columns := []string{
		"Item Number", "Description", "Avg Std Cost", "Qty On Hand",
		"Available Units", "Average Usage", "Excess to Safety Stock",
		"Burn Down Years", "Burn Down Category",
	}
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range rows {
		// Items with no usage show the category instead of a year figure.
		var years interface{} = row.Years
		if row.NoRequirements {
			years = "Excess"
		}
		values := []interface{}{
			row.SKU, row.Description, row.AvgCost, row.QtyOnHand,
			row.AvailableUnits, row.AverageUsage, row.Excess,
			years, row.Category,
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook %s: %w", path, err)
	}
	return nil
}
