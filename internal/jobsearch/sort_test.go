package jobsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func titles(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Title)
	}
	return out
}

func TestSortAlphabetical(t *testing.T) {
	results := []Result{{Title: "Zookeeper"}, {Title: "Analyst"}, {Title: "Mechanic"}}
	Sort(results, "alphabetical")
	assert.Equal(t, []string{"Analyst", "Mechanic", "Zookeeper"}, titles(results))
}

func TestSortDateNewestFirst(t *testing.T) {
	results := []Result{
		{Title: "old", Created: "2026-07-01T00:00:00Z"},
		{Title: "new", Created: "2026-08-20T00:00:00Z"},
		{Title: "mid", Created: "2026-08-01T00:00:00Z"},
	}
	Sort(results, "date")
	assert.Equal(t, []string{"new", "mid", "old"}, titles(results))
}

func TestSortSalaryDescendingUnparseableLast(t *testing.T) {
	results := []Result{
		{Title: "unknown", SalaryMin: NotListed, SalaryMax: NotListed},
		{Title: "low", SalaryMin: "40000", SalaryMax: "50000"},
		{Title: "high", SalaryMin: "120000", SalaryMax: "150000"},
	}
	Sort(results, "salary")
	assert.Equal(t, []string{"high", "low", "unknown"}, titles(results))
}

func TestSortDistanceAscendingSentinelLast(t *testing.T) {
	results := []Result{
		{Title: "unknown", Distance: NoDistance},
		{Title: "far", Distance: 42.5},
		{Title: "near", Distance: 3.2},
	}
	Sort(results, "distance")
	assert.Equal(t, []string{"near", "far", "unknown"}, titles(results))
}

func TestSortDefaultKeepsUpstreamOrder(t *testing.T) {
	results := []Result{{Title: "b"}, {Title: "a"}, {Title: "c"}}
	Sort(results, "default")
	assert.Equal(t, []string{"b", "a", "c"}, titles(results))
	Sort(results, "relevance")
	assert.Equal(t, []string{"b", "a", "c"}, titles(results))
}
