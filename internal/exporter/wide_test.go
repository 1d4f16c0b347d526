package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthboard/internal/series"
)

func ts(variable string, points ...series.Point) series.TransformedSeries {
	return series.TransformedSeries{Country: "Bolivia", Variable: variable, Points: points}
}

func TestBuildWideTable(t *testing.T) {
	order := []string{"Real GDP", "Population", "Capital stock"}

	t.Run("pivot with union of years and canonical column order", func(t *testing.T) {
		byVariable := map[string]series.TransformedSeries{
			"Population": ts("Population", series.Point{Year: 1951, Value: 3.1}, series.Point{Year: 1952, Value: 3.2}),
			"Real GDP":   ts("Real GDP", series.Point{Year: 1950, Value: 100}, series.Point{Year: 1951, Value: 110}),
		}

		table, err := BuildWideTable(byVariable, "Bolivia", order)
		require.NoError(t, err)

		assert.Equal(t, "Bolivia", table.Country)
		assert.Equal(t, []string{"Real GDP", "Population"}, table.Variables)
		assert.Equal(t, []int{1950, 1951, 1952}, table.Years)
		assert.Equal(t, []string{"Year", "Country", "Real GDP", "Population"}, table.Columns())

		v, ok := table.Value(1950, "Real GDP")
		require.True(t, ok)
		assert.Equal(t, 100.0, v)

		v, ok = table.Value(1951, "Population")
		require.True(t, ok)
		assert.Equal(t, 3.1, v)

		// Years outside one variable's coverage stay empty, not zero.
		_, ok = table.Value(1950, "Population")
		assert.False(t, ok)
		_, ok = table.Value(1952, "Real GDP")
		assert.False(t, ok)
		assert.Nil(t, table.Cells[0][1])
	})

	t.Run("variables outside the canonical order are excluded", func(t *testing.T) {
		byVariable := map[string]series.TransformedSeries{
			"Real GDP":       ts("Real GDP", series.Point{Year: 1950, Value: 100}),
			"Shadow economy": ts("Shadow economy", series.Point{Year: 1950, Value: 1}),
			"Another stray":  ts("Another stray", series.Point{Year: 1950, Value: 2}),
		}

		table, err := BuildWideTable(byVariable, "Bolivia", order)
		require.NoError(t, err)
		assert.Equal(t, []string{"Real GDP"}, table.Variables)
	})

	t.Run("duplicate year inside one series fails the pivot", func(t *testing.T) {
		byVariable := map[string]series.TransformedSeries{
			"Real GDP": ts("Real GDP",
				series.Point{Year: 1950, Value: 100},
				series.Point{Year: 1950, Value: 101},
			),
		}

		_, err := BuildWideTable(byVariable, "Bolivia", order)
		assert.ErrorIs(t, err, series.ErrInconsistentSeries)
	})

	t.Run("empty input yields an empty table", func(t *testing.T) {
		table, err := BuildWideTable(nil, "Bolivia", order)
		require.NoError(t, err)
		assert.Empty(t, table.Variables)
		assert.Empty(t, table.Years)
	})

	t.Run("lookup outside the table misses", func(t *testing.T) {
		byVariable := map[string]series.TransformedSeries{
			"Real GDP": ts("Real GDP", series.Point{Year: 1950, Value: 100}),
		}
		table, err := BuildWideTable(byVariable, "Bolivia", order)
		require.NoError(t, err)

		_, ok := table.Value(1950, "Population")
		assert.False(t, ok)
		_, ok = table.Value(1999, "Real GDP")
		assert.False(t, ok)
	})
}
