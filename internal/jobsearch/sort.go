package jobsearch

import "sort"

// Sort orders results in place by the given preference. default/relevance
// keep the upstream order; date and salary are normally delegated to the
// upstream's native sort but are honoured here too so cached result sets
// come back in the right order.
func Sort(results []Result, preference string) {
	switch preference {
	case "alphabetical":
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Title < results[j].Title
		})
	case "date":
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].CreatedTime().After(results[j].CreatedTime())
		})
	case "salary":
		// listings without parseable salary sort strictly last
		sort.SliceStable(results, func(i, j int) bool {
			avgI, okI := results[i].AvgSalary()
			avgJ, okJ := results[j].AvgSalary()
			if !okI {
				return false
			}
			if !okJ {
				return true
			}
			return avgI > avgJ
		})
	case "distance":
		// unknown coordinates (sentinel) sort last
		sort.SliceStable(results, func(i, j int) bool {
			dI, dJ := results[i].Distance, results[j].Distance
			if dI == NoDistance {
				return false
			}
			if dJ == NoDistance {
				return true
			}
			return dI < dJ
		})
	}
}
