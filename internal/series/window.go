package series

// MovingAverage smooths a transformed series with a trailing mean over the
// last window points. The first window-1 points have no full window behind
// them and are dropped. A window of 1 (or less) is the identity.
func MovingAverage(s TransformedSeries, window int) TransformedSeries {
	if window <= 1 || len(s.Points) == 0 {
		return s
	}

	out := s
	out.Points = make([]Point, 0, len(s.Points))
	sum := 0.0
	for i, p := range s.Points {
		sum += p.Value
		if i >= window {
			sum -= s.Points[i-window].Value
		}
		if i >= window-1 {
			out.Points = append(out.Points, Point{Year: p.Year, Value: sum / float64(window)})
		}
	}
	return out
}
