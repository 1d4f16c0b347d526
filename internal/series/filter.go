package series

// FilterYears returns the intersection of the dataset's year columns with
// the inclusive interval [start, end], ascending. Callers treat an empty
// result as "no data in range" and suppress downstream computation; an
// inverted interval is empty by construction, not an error.
func FilterYears(allYears []int, start, end int) []int {
	var years []int
	for _, y := range allYears {
		if y >= start && y <= end {
			years = append(years, y)
		}
	}
	return years
}
