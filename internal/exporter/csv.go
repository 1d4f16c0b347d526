package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVOptions configures delimited output.
type CSVOptions struct {
	// BOMPrefix emits a UTF-8 BOM so spreadsheet tools pick the right
	// encoding for country names like "Côte d'Ivoire".
	BOMPrefix bool
}

// WriteCSV serializes a wide table. Empty cells stay empty fields; column
// order is exactly WideTable.Columns.
func WriteCSV(w io.Writer, table *WideTable, opts CSVOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(table.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, year := range table.Years {
		record := make([]string, 0, len(table.Variables)+2)
		record = append(record, formatInt(year), table.Country)
		for _, cell := range table.Cells[i] {
			if cell == nil {
				record = append(record, "")
				continue
			}
			record = append(record, formatFloat(*cell))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", year, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
