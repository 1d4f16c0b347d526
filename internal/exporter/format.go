package exporter

import "strconv"

// formatFloat formats a cell value for delimited output without losing
// precision: the shortest decimal string that round-trips the float64.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats a year for delimited output.
func formatInt(i int) string {
	return strconv.Itoa(i)
}
