package integration

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/envmeta/search-client/internal/testutil"
	"github.com/envmeta/search-client/pkg/client"
	"github.com/envmeta/search-client/pkg/pagination"
	"github.com/envmeta/search-client/pkg/stats"
)

func newFetcher(t *testing.T, mock *testutil.MockSearch) *pagination.Fetcher {
	t.Helper()

	cfg := client.DefaultConfig()
	cfg.BaseURL = mock.URL()

	searchClient, err := client.New(cfg)
	require.NoError(t, err)

	return pagination.New(searchClient)
}

// TestRegionCountOverTwoPages runs the full pipeline over a two-page search:
// fetch, stream, and region tally.
func TestRegionCountOverTwoPages(t *testing.T) {
	mock := testutil.NewMockSearch()
	defer mock.Close()

	mock.SetPage(1, testutil.NewPageResponse(2,
		testutil.NewResult("a", "1", `{"region": {"Other": "X"}}`),
	))
	mock.SetPage(2, testutil.NewPageResponse(2,
		testutil.NewResult("b", "2", `{"region": null}`),
	))

	fetcher := newFetcher(t, mock)

	regionStats, err := stats.Regions(fetcher.Fetch(context.Background()))
	require.NoError(t, err)

	require.Equal(t, 1, regionStats.Count)
	require.Equal(t, 1, regionStats.Other)
	require.Equal(t, 1, regionStats.Names.Get("X"))

	require.Equal(t, []int{1, 2}, mock.PageRequests())
}

// TestResourceHistogramOverThreePages covers the second consumer end to end,
// including connection reuse across all page requests.
func TestResourceHistogramOverThreePages(t *testing.T) {
	mock := testutil.NewMockSearch()
	defer mock.Close()

	mock.SetPage(1, testutil.NewPageResponse(3,
		testutil.NewResult("ckan", "1", `{"resources": [{}, {}]}`),
		testutil.NewResult("ckan", "2", `{"resources": [{}]}`),
	))
	mock.SetPage(2, testutil.NewPageResponse(3,
		testutil.NewResult("csw", "3", `{"resources": [{}]}`),
	))
	mock.SetPage(3, testutil.NewPageResponse(3,
		testutil.NewResult("manual", "4", `{"resources": [{}]}`),
	))

	fetcher := newFetcher(t, mock)

	resourceStats, err := stats.Resources(fetcher.Fetch(context.Background()))
	require.NoError(t, err)

	var buf bytes.Buffer
	resourceStats.Report(&buf)
	require.Equal(t, "1: 75.0 %\n2: 100.0 %\n", buf.String())

	require.Equal(t, []int{1, 2, 3}, mock.PageRequests())
	require.Equal(t, 1, mock.ConnectionCount())
}

// TestConsumerSeesMidStreamFailure verifies a consumer never reports a
// partial tally as a total when a later page fails.
func TestConsumerSeesMidStreamFailure(t *testing.T) {
	mock := testutil.NewMockSearch()
	defer mock.Close()

	mock.SetPage(1, testutil.NewPageResponse(2,
		testutil.NewResult("ckan", "1", `{"region": {"Other": "X"}}`),
	))
	mock.SetPage(2, testutil.NewServerErrorResponse())

	fetcher := newFetcher(t, mock)

	regionStats, err := stats.Regions(fetcher.Fetch(context.Background()))

	var transportErr *client.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Nil(t, regionStats)
}
