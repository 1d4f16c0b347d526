package exporter

import (
	"fmt"
	"sort"

	"growthboard/internal/series"
)

// WideTable is the export shape: one row per year, one column per variable,
// for a single country. Cells hold nil where a variable has no value for a
// year; export-time missingness stays empty rather than zero-filled, unlike
// the Raw transform's display path.
type WideTable struct {
	Country   string
	Variables []string
	Years     []int
	// Cells is row-major, parallel to Years then Variables.
	Cells [][]*float64
}

// Columns returns the header row: Year, Country, then the variables in
// canonical order.
func (t *WideTable) Columns() []string {
	cols := make([]string, 0, len(t.Variables)+2)
	cols = append(cols, "Year", "Country")
	cols = append(cols, t.Variables...)
	return cols
}

// Value returns the cell for (year, variable), or ok=false when the cell is
// empty or the pair is outside the table.
func (t *WideTable) Value(year int, variable string) (float64, bool) {
	col := -1
	for i, v := range t.Variables {
		if v == variable {
			col = i
			break
		}
	}
	if col == -1 {
		return 0, false
	}
	for i, y := range t.Years {
		if y == year {
			if cell := t.Cells[i][col]; cell != nil {
				return *cell, true
			}
			return 0, false
		}
	}
	return 0, false
}

// BuildWideTable pivots a set of transformed series for one country into a
// WideTable. The row index is the union of all years across the input
// series, ascending and unique. Column order follows canonicalOrder;
// variables present in the input but absent from canonicalOrder are
// excluded, an explicit policy rather than an accident.
//
// A duplicate year inside one series makes the pivot undefined and returns
// series.ErrInconsistentSeries. This fails the export step only; it never
// tears down the session.
func BuildWideTable(byVariable map[string]series.TransformedSeries, country string, canonicalOrder []string) (*WideTable, error) {
	table := &WideTable{Country: country}

	for _, v := range canonicalOrder {
		if _, ok := byVariable[v]; ok {
			table.Variables = append(table.Variables, v)
		}
	}

	indexed := make(map[string]map[int]float64, len(table.Variables))
	yearSet := make(map[int]struct{})
	for _, v := range table.Variables {
		s := byVariable[v]
		values := make(map[int]float64, len(s.Points))
		for _, p := range s.Points {
			if _, dup := values[p.Year]; dup {
				return nil, fmt.Errorf("%w: variable %q year %d", series.ErrInconsistentSeries, v, p.Year)
			}
			values[p.Year] = p.Value
			yearSet[p.Year] = struct{}{}
		}
		indexed[v] = values
	}

	table.Years = make([]int, 0, len(yearSet))
	for y := range yearSet {
		table.Years = append(table.Years, y)
	}
	sort.Ints(table.Years)

	table.Cells = make([][]*float64, len(table.Years))
	for i, year := range table.Years {
		row := make([]*float64, len(table.Variables))
		for j, v := range table.Variables {
			if value, ok := indexed[v][year]; ok {
				value := value
				row[j] = &value
			}
		}
		table.Cells[i] = row
	}

	return table, nil
}
