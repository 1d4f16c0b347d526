package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthboard/internal/dataset"
)

const sampleCSV = `Country,ISO code,Variable code,Variable name,1950,1951,1952
Bolivia,BOL,rgdp,Real GDP,100,110,
Bolivia,BOL,pop,Population,3013,,3125
Chile,CHL,rgdp,Real GDP,50,55,60
`

type captureNotifier struct {
	datasetIDs []string
	sources    []string
}

func (n *captureNotifier) NotifyDatasetReloaded(datasetID, source string) {
	n.datasetIDs = append(n.datasetIDs, datasetID)
	n.sources = append(n.sources, source)
}

func loadSample(t *testing.T, svc *DatasetService) *dataset.Dataset {
	t.Helper()
	ds, err := svc.LoadFromReader(context.Background(), strings.NewReader(sampleCSV), "pwt.csv")
	require.NoError(t, err)
	return ds
}

func TestDatasetServiceLifecycle(t *testing.T) {
	t.Run("no dataset before first load", func(t *testing.T) {
		svc := NewDatasetService(nil, nil)

		_, err := svc.Current()
		assert.ErrorIs(t, err, ErrNoDataset)
		_, err = svc.Metadata(context.Background())
		assert.ErrorIs(t, err, ErrNoDataset)
		_, err = svc.Countries(context.Background())
		assert.ErrorIs(t, err, ErrNoDataset)
		_, err = svc.Variables(context.Background(), "Bolivia")
		assert.ErrorIs(t, err, ErrNoDataset)
	})

	t.Run("load swaps the snapshot and notifies", func(t *testing.T) {
		notifier := &captureNotifier{}
		svc := NewDatasetService(nil, notifier)

		ds := loadSample(t, svc)
		current, err := svc.Current()
		require.NoError(t, err)
		assert.Same(t, ds, current)

		require.Len(t, notifier.datasetIDs, 1)
		assert.Equal(t, ds.ID, notifier.datasetIDs[0])
		assert.Equal(t, []string{"pwt.csv"}, notifier.sources)
	})

	t.Run("failed reload keeps the previous snapshot", func(t *testing.T) {
		svc := NewDatasetService(nil, nil)
		ds := loadSample(t, svc)

		_, err := svc.LoadFromReader(context.Background(), strings.NewReader("no,years,here\na,b,c\n"), "bad.csv")
		assert.ErrorIs(t, err, dataset.ErrMalformed)

		current, err := svc.Current()
		require.NoError(t, err)
		assert.Same(t, ds, current)
	})

	t.Run("unsupported extension is rejected before parsing", func(t *testing.T) {
		svc := NewDatasetService(nil, nil)
		_, err := svc.LoadFromReader(context.Background(), strings.NewReader(sampleCSV), "pwt.json")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("extension matching is case-insensitive", func(t *testing.T) {
		svc := NewDatasetService(nil, nil)
		_, err := svc.LoadFromReader(context.Background(), strings.NewReader(sampleCSV), "PWT.CSV")
		assert.NoError(t, err)
	})
}

func TestDatasetServiceMetadata(t *testing.T) {
	svc := NewDatasetService(nil, nil)
	loadSample(t, svc)

	md, err := svc.Metadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, md.Rows)
	assert.Equal(t, 2, md.Countries)
	assert.Equal(t, 1950, md.FirstYear)
	assert.Equal(t, 1952, md.LastYear)
	assert.Equal(t, []int{1950, 1951, 1952}, md.Years)
	assert.Equal(t, []string{"Bolivia", "Chile"}, md.Sample)
}

func TestDatasetServiceQueries(t *testing.T) {
	svc := NewDatasetService(nil, nil)
	loadSample(t, svc)

	countries, err := svc.Countries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bolivia", "Chile"}, countries)

	variables, err := svc.Variables(context.Background(), "Bolivia")
	require.NoError(t, err)
	assert.Equal(t, []string{"Real GDP", "Population"}, variables)

	_, err = svc.Variables(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrCountryNotFound)
}
