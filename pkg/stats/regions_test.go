package stats

import (
	"bytes"
	"encoding/json"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/envmeta/search-client/pkg/pagination"
)

// record builds one in-memory record with the given dataset JSON.
func record(t *testing.T, source, id, dataset string) pagination.Record {
	t.Helper()

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(dataset), &fields))

	return pagination.Record{Source: source, ID: id, Dataset: fields}
}

// seqOf yields the given records, then err when non-nil.
func seqOf(records []pagination.Record, err error) iter.Seq2[pagination.Record, error] {
	return func(yield func(pagination.Record, error) bool) {
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
		if err != nil {
			yield(pagination.Record{}, err)
		}
	}
}

func TestRegions(t *testing.T) {
	records := []pagination.Record{
		record(t, "ckan", "1", `{"region": {"GeoName": 2921044}}`),
		record(t, "ckan", "2", `{"region": {"Other": "Elbe"}}`),
		record(t, "csw", "3", `{"region": {"Other": "Elbe"}}`),
		record(t, "csw", "4", `{"region": {"Other": "Weser"}}`),
		record(t, "manual", "5", `{"region": null}`),
	}

	regionStats, err := Regions(seqOf(records, nil))
	require.NoError(t, err)

	require.Equal(t, 4, regionStats.Count, "null regions do not count")
	require.Equal(t, 3, regionStats.Other)
	require.Equal(t, 2, regionStats.Names.Get("Elbe"))
	require.Equal(t, 1, regionStats.Names.Get("Weser"))
}

func TestRegions_TwoPageScenario(t *testing.T) {
	// One record with a free-text region, one with a null region.
	records := []pagination.Record{
		record(t, "a", "1", `{"region": {"Other": "X"}}`),
		record(t, "b", "2", `{"region": null}`),
	}

	regionStats, err := Regions(seqOf(records, nil))
	require.NoError(t, err)

	require.Equal(t, 1, regionStats.Count)
	require.Equal(t, 1, regionStats.Other)
	require.Equal(t, 1, regionStats.Names.Get("X"))
}

func TestRegions_MissingKey(t *testing.T) {
	records := []pagination.Record{
		record(t, "ckan", "1", `{"resources": []}`),
	}

	_, err := Regions(seqOf(records, nil))
	require.Error(t, err)
	require.Contains(t, err.Error(), "ckan/1")
}

func TestRegions_FetchErrorDiscardsPartialTally(t *testing.T) {
	boom := errors.New("boom")
	records := []pagination.Record{
		record(t, "ckan", "1", `{"region": {"Other": "Elbe"}}`),
	}

	regionStats, err := Regions(seqOf(records, boom))
	require.ErrorIs(t, err, boom)
	require.Nil(t, regionStats)
}

func TestRegionStats_Report(t *testing.T) {
	records := []pagination.Record{
		record(t, "ckan", "1", `{"region": {"GeoName": 1}}`),
		record(t, "ckan", "2", `{"region": {"Other": "Elbe"}}`),
		record(t, "csw", "3", `{"region": {"Other": "Elbe"}}`),
		record(t, "csw", "4", `{"region": {"Other": "Weser"}}`),
	}

	regionStats, err := Regions(seqOf(records, nil))
	require.NoError(t, err)

	var buf bytes.Buffer
	regionStats.Report(&buf)

	require.Equal(t, "4 regions, 3 (75.0) unknown\nElbe: 2\nWeser: 1\n", buf.String())
}

func TestRegionStats_ReportEmpty(t *testing.T) {
	regionStats, err := Regions(seqOf(nil, nil))
	require.NoError(t, err)

	var buf bytes.Buffer
	regionStats.Report(&buf)

	require.Equal(t, "0 regions, 0 (0.0) unknown\n", buf.String())
}
