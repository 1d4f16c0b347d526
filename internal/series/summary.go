package series

import "math"

// Summary holds descriptive statistics for one transformed series, computed
// over its surviving (non-missing) points only.
type Summary struct {
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Std       float64 `json:"std"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	FirstYear int     `json:"first_year"`
	LastYear  int     `json:"last_year"`
}

// Summarize computes descriptive statistics for a transformed series. Std is
// the sample standard deviation; series with fewer than two points report 0.
func Summarize(s TransformedSeries) Summary {
	if len(s.Points) == 0 {
		return Summary{}
	}

	sum := 0.0
	min, max := s.Points[0].Value, s.Points[0].Value
	for _, p := range s.Points {
		sum += p.Value
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}
	n := len(s.Points)
	mean := sum / float64(n)

	std := 0.0
	if n > 1 {
		ss := 0.0
		for _, p := range s.Points {
			d := p.Value - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	return Summary{
		Count:     n,
		Mean:      mean,
		Std:       std,
		Min:       min,
		Max:       max,
		FirstYear: s.Points[0].Year,
		LastYear:  s.Points[n-1].Year,
	}
}
