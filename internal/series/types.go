package series

import "fmt"

// Transformation selects how raw cell values become chart/export values.
type Transformation int

const (
	// Raw passes values through, replacing missing cells with 0.
	Raw Transformation = iota
	// Log applies the natural logarithm; non-positive inputs are dropped.
	Log
	// GrowthRate computes period-over-period percent change.
	GrowthRate
)

// String returns the wire name of the transformation.
func (t Transformation) String() string {
	switch t {
	case Raw:
		return "raw"
	case Log:
		return "log"
	case GrowthRate:
		return "growth"
	default:
		return "unknown"
	}
}

// ParseTransformation maps a wire name to a Transformation.
func ParseTransformation(s string) (Transformation, error) {
	switch s {
	case "raw", "":
		return Raw, nil
	case "log":
		return Log, nil
	case "growth":
		return GrowthRate, nil
	default:
		return Raw, fmt.Errorf("unknown transformation %q", s)
	}
}

// Observation is one source cell after numeric coercion. Missing marks cells
// that were blank or failed to parse.
type Observation struct {
	Year    int
	Value   float64
	Missing bool
}

// RawSeries is the year-ordered value sequence for one (country, variable)
// pair, one observation per requested year.
type RawSeries struct {
	Country  string
	Variable string
	Obs      []Observation
}

// Point is one plottable/exportable value. TransformedSeries points never
// carry missing values; rows that could not be computed are dropped.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// TransformedSeries is a RawSeries after one Transformation, ascending by
// year. It may be shorter than its input: GrowthRate loses the base year and
// Log loses non-positive inputs.
type TransformedSeries struct {
	Country        string
	Variable       string
	Transformation Transformation
	Points         []Point
}
