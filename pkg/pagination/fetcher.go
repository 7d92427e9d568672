// Package pagination turns page-by-page search retrieval into one lazy
// record sequence.
package pagination

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/envmeta/search-client/pkg/client"
)

// Prometheus metrics for fetch progress.
var (
	searchPagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "search_pages_fetched_total",
		Help: "Total search pages fetched across all fetch calls",
	})

	searchRecordsYieldedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "search_records_yielded_total",
		Help: "Total search records yielded to consumers",
	})
)

// PageFetcher is the interface the search client must implement for
// single-page fetching.
type PageFetcher interface {
	// SearchPage fetches one 1-based page of results.
	SearchPage(ctx context.Context, page int) (*client.Page, error)
}

// Record is one search result as seen by consumers. Dataset is opaque to the
// fetcher; only consumers interpret its keys.
type Record struct {
	Source  string
	ID      string
	Dataset map[string]json.RawMessage
}

// Fetcher streams all pages of a search as a flat record sequence.
type Fetcher struct {
	pages PageFetcher
}

// New creates a fetcher on top of a page fetcher, typically *client.Client.
func New(pages PageFetcher) *Fetcher {
	return &Fetcher{pages: pages}
}

// Fetch returns a lazy sequence over every record of every page. Page 1 is
// fetched first and its reported page count is read once; pages 2..pages
// follow in strictly ascending order, each page's records yielded in array
// order before the next page request is issued. The sequence is finite and
// not restartable: ranging over it a second time re-issues the full request
// sequence.
//
// Any transport or parse failure is yielded as the error of the pair at the
// point of the failing page and terminates the sequence; records yielded
// before the failure remain valid.
func (f *Fetcher) Fetch(ctx context.Context) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		start := time.Now()

		first, err := f.pages.SearchPage(ctx, 1)
		if err != nil {
			yield(Record{}, fmt.Errorf("fetch page 1: %w", err))
			return
		}

		log.Debug().
			Int("total_pages", first.Pages).
			Int("count", first.Count).
			Msg("Starting sequential page fetch")

		searchPagesFetchedTotal.Inc()

		if !yieldPage(first, yield) {
			return
		}

		totalPages := first.Pages
		fetchedPages := 1

		for page := 2; page <= totalPages; page++ {
			next, err := f.pages.SearchPage(ctx, page)
			if err != nil {
				yield(Record{}, fmt.Errorf("fetch page %d: %w", page, err))
				return
			}

			searchPagesFetchedTotal.Inc()
			fetchedPages++

			// Progress logging every 50 pages
			if fetchedPages%50 == 0 {
				log.Debug().
					Int("fetched", fetchedPages).
					Int("total", totalPages).
					Msg("Fetch progress")
			}

			if !yieldPage(next, yield) {
				return
			}
		}

		log.Debug().
			Int("pages", fetchedPages).
			Dur("duration", time.Since(start)).
			Msg("Fetch complete")
	}
}

// yieldPage streams one page's records in array order. Returns false when the
// consumer stopped early.
func yieldPage(page *client.Page, yield func(Record, error) bool) bool {
	for _, result := range page.Results {
		searchRecordsYieldedTotal.Inc()

		record := Record{
			Source:  result.Source,
			ID:      result.ID,
			Dataset: result.Dataset,
		}

		if !yield(record, nil) {
			return false
		}
	}

	return true
}
