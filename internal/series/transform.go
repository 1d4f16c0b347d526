package series

import (
	"fmt"
	"math"
)

// Transform applies one Transformation to a raw series and reports any
// data-quality warnings.
//
// Raw zero-fills missing observations and keeps every requested year. Log
// and GrowthRate instead compute through missing values and drop rows that
// end up missing, so downstream stages never see NaN or Inf. The zero-fill
// versus drop asymmetry is deliberate: Raw feeds display, the others feed
// analysis.
func Transform(s RawSeries, kind Transformation) (TransformedSeries, []string) {
	out := TransformedSeries{
		Country:        s.Country,
		Variable:       s.Variable,
		Transformation: kind,
		Points:         make([]Point, 0, len(s.Obs)),
	}

	switch kind {
	case Raw:
		for _, o := range s.Obs {
			v := o.Value
			if o.Missing {
				v = 0
			}
			out.Points = append(out.Points, Point{Year: o.Year, Value: v})
		}
		return out, nil

	case Log:
		nonPositive := false
		for _, o := range s.Obs {
			if o.Missing {
				continue
			}
			if o.Value <= 0 {
				nonPositive = true
				continue
			}
			out.Points = append(out.Points, Point{Year: o.Year, Value: math.Log(o.Value)})
		}
		if nonPositive {
			// One warning per variable regardless of how many cells tripped it.
			return out, []string{fmt.Sprintf("%s: non-positive values cannot be log-transformed and were dropped", s.Variable)}
		}
		return out, nil

	case GrowthRate:
		for i := 1; i < len(s.Obs); i++ {
			cur, prev := s.Obs[i], s.Obs[i-1]
			if cur.Missing || prev.Missing || prev.Value == 0 {
				continue
			}
			pct := (cur.Value - prev.Value) / prev.Value * 100
			out.Points = append(out.Points, Point{Year: cur.Year, Value: pct})
		}
		return out, nil

	default:
		return out, []string{fmt.Sprintf("%s: unsupported transformation %d", s.Variable, kind)}
	}
}
