package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// FromCSV reads a growth-accounting table from CSV. The first record is the
// header; Country and Variable name columns are required and at least one
// four-digit year column must be present.
func FromCSV(r io.Reader, source string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows degrade to missing cells
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV records: %w", err)
	}
	return fromRecords(records, source)
}

// FromExcel reads a growth-accounting table from the first sheet of an xlsx
// workbook.
func FromExcel(r io.Reader, source string) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return fromRecords(rows, source)
}

// fromRecords builds a Dataset from raw header+data records. Shared by the
// CSV and Excel loaders so both formats get identical semantics.
func fromRecords(records [][]string, source string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrMalformed)
	}

	header := records[0]
	columnIndex := make(map[string]int, len(header))
	yearIndex := make(map[int]int) // year -> column position
	for i, name := range header {
		name = strings.TrimSpace(name)
		if year, ok := isYearColumn(name); ok {
			if _, dup := yearIndex[year]; !dup {
				yearIndex[year] = i
			}
			continue
		}
		if _, dup := columnIndex[name]; !dup {
			columnIndex[name] = i
		}
	}

	for _, required := range []string{ColumnCountry, ColumnVariableName} {
		if _, ok := columnIndex[required]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", ErrMalformed, required)
		}
	}
	if len(yearIndex) == 0 {
		return nil, fmt.Errorf("%w: no four-digit year columns in header", ErrMalformed)
	}

	years := make([]int, 0, len(yearIndex))
	for year := range yearIndex {
		years = append(years, year)
	}
	sort.Ints(years)

	cell := func(record []string, idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	optional := func(name string) int {
		if idx, ok := columnIndex[name]; ok {
			return idx
		}
		return -1
	}

	countryIdx := columnIndex[ColumnCountry]
	variableIdx := columnIndex[ColumnVariableName]
	isoIdx := optional(ColumnISOCode)
	codeIdx := optional(ColumnVariableCode)

	ds := &Dataset{
		ID:       uuid.New().String(),
		Source:   source,
		LoadedAt: time.Now().UTC(),
		Years:    years,
	}

	skipped := 0
	for _, record := range records[1:] {
		country := cell(record, countryIdx)
		variable := cell(record, variableIdx)
		if country == "" && variable == "" {
			skipped++
			continue
		}

		row := Row{
			Country:      country,
			ISOCode:      cell(record, isoIdx),
			VariableCode: cell(record, codeIdx),
			VariableName: variable,
			Cells:        make(map[int]string, len(years)),
		}
		for year, idx := range yearIndex {
			if v := cell(record, idx); v != "" {
				row.Cells[year] = v
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	if len(ds.Rows) == 0 {
		return nil, fmt.Errorf("%w: table has no data rows", ErrMalformed)
	}

	slog.Debug("dataset loaded",
		slog.String("dataset_id", ds.ID),
		slog.String("source", source),
		slog.Int("rows", len(ds.Rows)),
		slog.Int("years", len(ds.Years)),
		slog.Int("skipped_rows", skipped))

	return ds, nil
}
