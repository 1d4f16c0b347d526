package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const excelSheet = "Series"

// WriteExcel serializes a wide table as an xlsx workbook with a single
// sheet. Cell contents mirror the CSV output: empty cells stay unset, years
// and values are written as numbers so downstream tools keep full precision.
func WriteExcel(w io.Writer, table *WideTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), excelSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	for j, name := range table.Columns() {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(excelSheet, cell, name); err != nil {
			return fmt.Errorf("write header %q: %w", name, err)
		}
	}

	for i, year := range table.Years {
		row := i + 2
		setCell := func(col int, value interface{}) error {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return err
			}
			return f.SetCellValue(excelSheet, cell, value)
		}

		if err := setCell(1, year); err != nil {
			return fmt.Errorf("write year %d: %w", year, err)
		}
		if err := setCell(2, table.Country); err != nil {
			return fmt.Errorf("write country: %w", err)
		}
		for j, cell := range table.Cells[i] {
			if cell == nil {
				continue
			}
			if err := setCell(j+3, *cell); err != nil {
				return fmt.Errorf("write cell (%d, %s): %w", year, table.Variables[j], err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
