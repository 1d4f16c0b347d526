package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthboard/internal/series"
)

func sampleTable(t *testing.T) *WideTable {
	t.Helper()
	byVariable := map[string]series.TransformedSeries{
		"Real GDP": {Variable: "Real GDP", Points: []series.Point{
			{Year: 1950, Value: 100}, {Year: 1951, Value: 110.5},
		}},
		"Population": {Variable: "Population", Points: []series.Point{
			{Year: 1951, Value: 3.125},
		}},
	}
	table, err := BuildWideTable(byVariable, "Bolivia", []string{"Real GDP", "Population"})
	require.NoError(t, err)
	return table
}

func TestWriteCSV(t *testing.T) {
	t.Run("header, rows and empty cells", func(t *testing.T) {
		var buf bytes.Buffer
		err := WriteCSV(&buf, sampleTable(t), CSVOptions{})
		require.NoError(t, err)

		expected := "Year,Country,Real GDP,Population\n" +
			"1950,Bolivia,100,\n" +
			"1951,Bolivia,110.5,3.125\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("BOM prefix", func(t *testing.T) {
		var buf bytes.Buffer
		err := WriteCSV(&buf, sampleTable(t), CSVOptions{BOMPrefix: true})
		require.NoError(t, err)

		out := buf.Bytes()
		require.True(t, len(out) > 3)
		assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, out[:3])
		assert.Equal(t, byte('Y'), out[3])
	})

	t.Run("empty table writes only the header", func(t *testing.T) {
		var buf bytes.Buffer
		table := &WideTable{Country: "Bolivia"}
		err := WriteCSV(&buf, table, CSVOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Year,Country\n", buf.String())
	})
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{input: 0, expected: "0"},
		{input: 100, expected: "100"},
		{input: 110.5, expected: "110.5"},
		{input: -25, expected: "-25"},
		{input: 0.001234, expected: "0.001234"},
		{input: 123.450000, expected: "123.45"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatFloat(tt.input))
	}
}
