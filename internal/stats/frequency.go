// Package stats holds the aggregations behind the dashboard: frequency tables
// and their long-tail collapsing, the retention ratio, monthly registration
// counts, pairwise-complete correlations and age distributions.
package stats

import (
	"sort"
	"strings"
)

// OtherLabel names the bucket that absorbs infrequent categories.
const OtherLabel = "Other"

// DefaultCollapseThreshold is the minimum count for a category to be reported on its own.
const DefaultCollapseThreshold = 5

// CategoryCount is one row of a frequency table.
type CategoryCount struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// FrequencyTable is an ordered sequence of (label, count) pairs.
type FrequencyTable []CategoryCount

// Total sums the counts.
func (f FrequencyTable) Total() int {
	n := 0
	for _, c := range f {
		n += c.Count
	}
	return n
}

// Count returns the count for a label, or 0.
func (f FrequencyTable) Count(label string) int {
	for _, c := range f {
		if c.Label == label {
			return c.Count
		}
	}
	return 0
}

// Frequencies counts non-empty values. The table is sorted by count descending,
// ties broken by label.
func Frequencies(values []string) FrequencyTable {
	counts := make(map[string]int)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		counts[v]++
	}
	return FromCounts(counts)
}

// FromCounts builds a sorted frequency table from a count map.
func FromCounts(counts map[string]int) FrequencyTable {
	out := make(FrequencyTable, 0, len(counts))
	for k, v := range counts {
		out = append(out, CategoryCount{Label: k, Count: v})
	}
	sortTable(out)
	return out
}

// Collapse keeps every category with count >= threshold and merges the rest
// into a single Other bucket. The bucket is omitted when it would be empty.
// The total count is preserved.
func Collapse(in FrequencyTable, threshold int) FrequencyTable {
	out := make(FrequencyTable, 0, len(in)+1)
	other := 0
	for _, c := range in {
		if c.Count >= threshold {
			out = append(out, c)
			continue
		}
		other += c.Count
	}
	if other > 0 {
		merged := false
		for i := range out {
			if out[i].Label == OtherLabel {
				out[i].Count += other
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, CategoryCount{Label: OtherLabel, Count: other})
		}
	}
	sortTable(out)
	return out
}

func sortTable(t FrequencyTable) {
	sort.SliceStable(t, func(i, j int) bool {
		if t[i].Count == t[j].Count {
			return t[i].Label < t[j].Label
		}
		return t[i].Count > t[j].Count
	})
}
