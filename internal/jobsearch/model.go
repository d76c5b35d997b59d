package jobsearch

import (
	"strconv"
	"strings"
	"time"
)

// NotListed is the sentinel Adzuna-derived listings carry when salary data is
// absent. Salary fields are strings on purpose: the upstream mixes numbers
// with this literal.
const NotListed = "Not listed"

// NoDistance marks a listing whose coordinates are unknown.
const NoDistance = float64(-1)

// Result is a normalized job listing. Ephemeral, never persisted.
type Result struct {
	Title       string
	Company     string
	Description string
	Location    string
	Created     string // ISO date string as returned upstream
	SalaryMin   string // numeric-as-string or NotListed
	SalaryMax   string
	Link        string
	Latitude    float64
	Longitude   float64
	Distance    float64 // miles from the user's city, NoDistance when unknown
}

// Salary parses one salary field. ok is false for NotListed and anything
// else that is not a number, so bad data never reaches arithmetic.
func Salary(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// AvgSalary averages min and max. ok is false unless both sides parse.
func (r Result) AvgSalary() (float64, bool) {
	min, okMin := Salary(r.SalaryMin)
	max, okMax := Salary(r.SalaryMax)
	if !okMin || !okMax {
		return 0, false
	}
	return (min + max) / 2, true
}

// CreatedTime parses the upstream ISO timestamp, zero time on failure.
func (r Result) CreatedTime() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02"} {
		if t, err := time.Parse(layout, r.Created); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Request is a normalized search request. Zero fields fall back to the
// configured defaults inside the client.
type Request struct {
	City           string
	JobType        string // employment type sent as the main search term
	WorkType       string
	DistanceMiles  string // free-text user input, defensively parsed
	Interests      []string
	SortPreference string
}
