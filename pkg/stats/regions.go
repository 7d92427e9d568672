package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/envmeta/search-client/pkg/pagination"
)

// region mirrors the dataset "region" value: either a resolved gazetteer
// reference or free text the upstream could not match.
type region struct {
	Other   *string `json:"Other"`
	GeoName *uint64 `json:"GeoName"`
}

// RegionStats summarizes region coverage across all fetched datasets.
type RegionStats struct {
	// Count is the number of records carrying a non-null region.
	Count int

	// Other is how many of those regions are unmatched free text.
	Other int

	// Names tallies the unmatched region names.
	Names *Counter[string]
}

// Regions consumes the record sequence once and tallies region coverage.
// A mid-stream fetch error discards the partial tally: an incomplete count
// must not be presented as a total.
func Regions(seq iter.Seq2[pagination.Record, error]) (*RegionStats, error) {
	stats := &RegionStats{Names: NewCounter[string]()}

	for record, err := range seq {
		if err != nil {
			return nil, err
		}

		raw, ok := record.Dataset["region"]
		if !ok {
			return nil, fmt.Errorf("dataset %s/%s lacks a region key", record.Source, record.ID)
		}

		var reg *region
		if err := json.Unmarshal(raw, &reg); err != nil {
			return nil, fmt.Errorf("dataset %s/%s has a malformed region: %w", record.Source, record.ID, err)
		}

		if reg == nil {
			continue
		}

		stats.Count++

		if reg.Other != nil {
			stats.Other++
			stats.Names.Add(*reg.Other)
		}
	}

	return stats, nil
}

// Report writes the region summary: total and unknown-share header, then the
// unmatched names by descending frequency.
func (s *RegionStats) Report(w io.Writer) {
	unknown := 0.0
	if s.Count > 0 {
		unknown = 100 * float64(s.Other) / float64(s.Count)
	}

	fmt.Fprintf(w, "%d regions, %d (%.1f) unknown\n", s.Count, s.Other, unknown)

	for _, entry := range s.Names.MostCommon() {
		fmt.Fprintf(w, "%s: %d\n", entry.Key, entry.Count)
	}
}
