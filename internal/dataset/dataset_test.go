package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsYearColumn(t *testing.T) {
	tests := []struct {
		header   string
		expected int
		ok       bool
	}{
		{header: "1950", expected: 1950, ok: true},
		{header: "2019", expected: 2019, ok: true},
		{header: "0000", expected: 0, ok: true},
		{header: "Country", ok: false},
		{header: "195", ok: false},
		{header: "19500", ok: false},
		{header: "19a0", ok: false},
		{header: "١٩٥٠", ok: false}, // non-ASCII digits
		{header: "", ok: false},
		{header: " 1950", ok: false},
	}

	for _, tt := range tests {
		t.Run("header "+tt.header, func(t *testing.T) {
			year, ok := isYearColumn(tt.header)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, year)
			}
		})
	}
}

func TestDatasetAccessors(t *testing.T) {
	ds := &Dataset{
		Years: []int{1950, 1951, 1960},
		Rows: []Row{
			{Country: "Bolivia", VariableName: "Real GDP"},
			{Country: "Bolivia", VariableName: "Population"},
			{Country: "Chile", VariableName: "Real GDP"},
			{Country: "Bolivia", VariableName: "Real GDP"}, // duplicate pair
			{Country: "Argentina", VariableName: "Real GDP"},
		},
	}

	t.Run("countries in first-seen order", func(t *testing.T) {
		assert.Equal(t, []string{"Bolivia", "Chile", "Argentina"}, ds.Countries())
	})

	t.Run("variables per country in first-seen order", func(t *testing.T) {
		assert.Equal(t, []string{"Real GDP", "Population"}, ds.VariablesFor("Bolivia"))
		assert.Equal(t, []string{"Real GDP"}, ds.VariablesFor("Chile"))
	})

	t.Run("unknown country yields empty, not error", func(t *testing.T) {
		assert.Empty(t, ds.VariablesFor("Atlantis"))
	})

	t.Run("year span", func(t *testing.T) {
		first, last := ds.YearSpan()
		assert.Equal(t, 1950, first)
		assert.Equal(t, 1960, last)
	})

	t.Run("year span of empty dataset", func(t *testing.T) {
		first, last := (&Dataset{}).YearSpan()
		assert.Equal(t, 0, first)
		assert.Equal(t, 0, last)
	})
}
