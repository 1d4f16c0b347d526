package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterYears(t *testing.T) {
	decades := make([]int, 0, 71)
	for y := 1950; y <= 2020; y++ {
		decades = append(decades, y)
	}

	tests := []struct {
		name     string
		years    []int
		start    int
		end      int
		expected []int
	}{
		{
			name:     "inclusive interval",
			years:    decades,
			start:    1960,
			end:      1970,
			expected: []int{1960, 1961, 1962, 1963, 1964, 1965, 1966, 1967, 1968, 1969, 1970},
		},
		{
			name:  "range beyond the data is empty",
			years: decades,
			start: 2025,
			end:   2030,
		},
		{
			name:  "inverted interval is empty",
			years: decades,
			start: 1970,
			end:   1960,
		},
		{
			name:     "single year",
			years:    decades,
			start:    2000,
			end:      2000,
			expected: []int{2000},
		},
		{
			name:     "sparse year columns intersect",
			years:    []int{1950, 1960, 1970, 1980},
			start:    1955,
			end:      1975,
			expected: []int{1960, 1970},
		},
		{
			name:  "no year columns",
			years: nil,
			start: 1950,
			end:   2020,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FilterYears(tt.years, tt.start, tt.end))
		})
	}
}
