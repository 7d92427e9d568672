// Package stats aggregates frequency statistics over fetched search records.
//
// Everything here is a consumer of the record sequence produced by
// pkg/pagination: each function ranges the sequence exactly once, extracts
// fields from the opaque dataset mapping, and tallies. Malformed datasets are
// this package's errors to raise, never the fetcher's.
package stats

import (
	"fmt"
	"sort"
)

// Counter is a frequency table from category values to occurrence counts.
type Counter[K comparable] struct {
	counts map[K]int
	total  int
}

// NewCounter creates an empty counter.
func NewCounter[K comparable]() *Counter[K] {
	return &Counter[K]{counts: make(map[K]int)}
}

// Add records one occurrence of key.
func (c *Counter[K]) Add(key K) {
	c.counts[key]++
	c.total++
}

// Get returns the count for key, zero when never added.
func (c *Counter[K]) Get(key K) int {
	return c.counts[key]
}

// Total returns the number of occurrences added across all keys.
func (c *Counter[K]) Total() int {
	return c.total
}

// Len returns the number of distinct keys.
func (c *Counter[K]) Len() int {
	return len(c.counts)
}

// Entry is one row of a sorted counter summary.
type Entry[K comparable] struct {
	Key   K
	Count int
}

// MostCommon returns all entries sorted by descending count. Ties are broken
// by the keys' formatted text so output stays stable across runs.
func (c *Counter[K]) MostCommon() []Entry[K] {
	entries := make([]Entry[K], 0, len(c.counts))
	for key, count := range c.counts {
		entries = append(entries, Entry[K]{Key: key, Count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return fmt.Sprint(entries[i].Key) < fmt.Sprint(entries[j].Key)
	})

	return entries
}
