package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/envmeta/search-client/pkg/pagination"
)

// ResourceStats is a histogram of resource counts per dataset.
type ResourceStats struct {
	// Histogram maps resources-per-dataset to the number of datasets with
	// that many resources.
	Histogram *Counter[int]
}

// Resources consumes the record sequence once and builds the resource-count
// histogram. Like Regions, a mid-stream fetch error discards the partial
// tally.
func Resources(seq iter.Seq2[pagination.Record, error]) (*ResourceStats, error) {
	stats := &ResourceStats{Histogram: NewCounter[int]()}

	for record, err := range seq {
		if err != nil {
			return nil, err
		}

		raw, ok := record.Dataset["resources"]
		if !ok {
			return nil, fmt.Errorf("dataset %s/%s lacks a resources key", record.Source, record.ID)
		}

		var resources []json.RawMessage
		if err := json.Unmarshal(raw, &resources); err != nil {
			return nil, fmt.Errorf("dataset %s/%s has malformed resources: %w", record.Source, record.ID, err)
		}

		stats.Histogram.Add(len(resources))
	}

	return stats, nil
}

// Report writes the histogram by descending frequency with the cumulative
// share of datasets covered at each bucket.
func (s *ResourceStats) Report(w io.Writer) {
	total := s.Histogram.Total()
	if total == 0 {
		return
	}

	cumsum := 0
	for _, entry := range s.Histogram.MostCommon() {
		cumsum += entry.Count

		fmt.Fprintf(w, "%d: %.1f %%\n", entry.Key, 100*float64(cumsum)/float64(total))
	}
}
