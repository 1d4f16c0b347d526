package dataset

import (
	"errors"
	"time"
)

// Column names the source table must carry. Year columns are discovered
// dynamically from the header.
const (
	ColumnCountry      = "Country"
	ColumnVariableName = "Variable name"
	ColumnVariableCode = "Variable code"
	ColumnISOCode      = "ISO code"
)

// ErrMalformed indicates the source table cannot produce any time series:
// a required column is absent or no year columns were discovered. It is
// fatal at load time and blocks all downstream computation until a valid
// dataset is supplied.
var ErrMalformed = errors.New("dataset malformed")

// Dataset is an immutable snapshot of one growth-accounting table: one row
// per (country, variable), one column per year. It is fully replaced on
// every reload, never mutated in place.
type Dataset struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`

	// Years holds the discovered year columns, ascending. Guaranteed
	// non-empty for a successfully loaded dataset.
	Years []int `json:"years"`

	Rows []Row `json:"-"`
}

// Row is one (country, variable) observation series in source form. Cell
// values stay as raw text; numeric coercion happens at extraction time so
// unparseable cells degrade to missing values instead of load failures.
type Row struct {
	Country      string
	ISOCode      string
	VariableCode string
	VariableName string
	Cells        map[int]string
}

// Countries returns the distinct country identifiers in first-seen order,
// matching the source table's own ordering.
func (d *Dataset) Countries() []string {
	seen := make(map[string]struct{}, len(d.Rows))
	var countries []string
	for _, row := range d.Rows {
		if _, ok := seen[row.Country]; ok {
			continue
		}
		seen[row.Country] = struct{}{}
		countries = append(countries, row.Country)
	}
	return countries
}

// VariablesFor returns the distinct variable names available for a country,
// in first-seen order. An unknown country yields an empty slice, not an
// error; absence is signalled at extraction time.
func (d *Dataset) VariablesFor(country string) []string {
	seen := make(map[string]struct{})
	var variables []string
	for _, row := range d.Rows {
		if row.Country != country {
			continue
		}
		if _, ok := seen[row.VariableName]; ok {
			continue
		}
		seen[row.VariableName] = struct{}{}
		variables = append(variables, row.VariableName)
	}
	return variables
}

// YearSpan returns the first and last discovered year columns.
func (d *Dataset) YearSpan() (first, last int) {
	if len(d.Years) == 0 {
		return 0, 0
	}
	return d.Years[0], d.Years[len(d.Years)-1]
}

// isYearColumn reports whether a header cell names a year column: exactly
// four ASCII digits.
func isYearColumn(header string) (int, bool) {
	if len(header) != 4 {
		return 0, false
	}
	year := 0
	for _, c := range header {
		if c < '0' || c > '9' {
			return 0, false
		}
		year = year*10 + int(c-'0')
	}
	return year, true
}
