package series

import (
	"fmt"
	"strconv"
	"strings"

	"growthboard/internal/dataset"
)

// Extract selects the row matching (country, variable) exactly and coerces
// the requested year cells to a RawSeries.
//
// Matching is case-sensitive; when the dataset carries duplicate rows for
// the same pair the first one wins, mirroring the source table's own
// ambiguity. Zero matches yield ErrNotFound; a match whose requested years
// are all blank or unparseable yields ErrEmptyResult. Cell coercion never
// fails the call: bad cells degrade to missing observations.
func Extract(ds *dataset.Dataset, country, variable string, years []int) (RawSeries, error) {
	s := RawSeries{Country: country, Variable: variable}

	var row *dataset.Row
	for i := range ds.Rows {
		if ds.Rows[i].Country == country && ds.Rows[i].VariableName == variable {
			row = &ds.Rows[i]
			break
		}
	}
	if row == nil {
		return s, fmt.Errorf("%w: country %q variable %q", ErrNotFound, country, variable)
	}

	s.Obs = make([]Observation, 0, len(years))
	valid := 0
	for _, year := range years {
		value, ok := coerce(row.Cells[year])
		if ok {
			valid++
		}
		s.Obs = append(s.Obs, Observation{Year: year, Value: value, Missing: !ok})
	}

	if valid == 0 {
		return s, fmt.Errorf("%w: country %q variable %q", ErrEmptyResult, country, variable)
	}
	return s, nil
}

// coerce parses one source cell. Thousands separators are tolerated, the way
// statistical exports often format large values.
func coerce(cell string) (float64, bool) {
	cell = strings.TrimSpace(strings.ReplaceAll(cell, ",", ""))
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
