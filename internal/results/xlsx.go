package results

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "Results"

// WriteXLSX exports the merged table as a spreadsheet for reviewers who work
// through outcomes in Excel.
func WriteXLSX(path string, t Table) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, col := range t.Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(xlsxSheetName, cell, col); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err == nil && len(t.Header) > 0 {
		if lastCol, cerr := excelize.CoordinatesToCellName(len(t.Header), 1); cerr == nil {
			_ = f.SetCellStyle(xlsxSheetName, "A1", lastCol, headerStyle)
		}
	}

	for r, row := range t.Rows {
		for i, val := range row {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(xlsxSheetName, cell, val); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx %q: %w", path, err)
	}
	return nil
}
