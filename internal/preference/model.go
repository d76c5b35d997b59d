package preference

import (
	"strings"
	"time"
)

// MaxInterests caps how many interests the form accepts.
const MaxInterests = 5

var validWorkTypes = map[string]bool{
	"remote": true,
	"hybrid": true,
	"onsite": true,
	"any":    true,
}

var validEmploymentTypes = map[string]bool{
	"full time":  true,
	"full-time":  true,
	"part time":  true,
	"part-time":  true,
	"internship": true,
	"contract":   true,
}

// JobPreferences holds a user's saved job-form answers. Zero values mean
// "never answered"; the repository only overwrites answered fields.
type JobPreferences struct {
	UserID         string
	City           string
	WorkType       string
	EmploymentType string
	TravelDistance string
	Interests      []string
	LastUpdated    time.Time
}

// IsZero reports whether no answer has ever been stored.
func (p JobPreferences) IsZero() bool {
	return p.City == "" && p.WorkType == "" && p.EmploymentType == "" &&
		p.TravelDistance == "" && len(p.Interests) == 0
}

// ValidationError describes a rejected form answer. It is reported back to
// the user, never logged server-side.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Validate checks the answered fields of a form submission. Blank fields are
// fine, they just leave the stored value untouched.
func Validate(p JobPreferences) []ValidationError {
	var errs []ValidationError
	if wt := strings.ToLower(strings.TrimSpace(p.WorkType)); wt != "" && !validWorkTypes[wt] {
		errs = append(errs, ValidationError{Field: "work type", Reason: "must be one of remote, hybrid, onsite or any"})
	}
	if et := strings.ToLower(strings.TrimSpace(p.EmploymentType)); et != "" && !validEmploymentTypes[et] {
		errs = append(errs, ValidationError{Field: "employment type", Reason: "must be one of full time, part time, internship or contract"})
	}
	if td := strings.TrimSpace(p.TravelDistance); td != "" {
		if !isPositiveNumber(td) {
			errs = append(errs, ValidationError{Field: "travel distance", Reason: "must be a positive number of miles"})
		}
	}
	if len(p.Interests) > MaxInterests {
		errs = append(errs, ValidationError{Field: "interests", Reason: "at most five interests are supported"})
	}
	return errs
}

func isPositiveNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != strings.Repeat("0", len(s))
}
