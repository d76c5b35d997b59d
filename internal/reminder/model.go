package reminder

import "time"

type Kind string

const (
	// KindCustom is a free-text reminder whose content is delivered verbatim.
	KindCustom Kind = "custom"
	// KindJobAlert regenerates a fresh job listing message at dispatch time.
	KindJobAlert Kind = "job-alert"
)

type Repeat string

const (
	RepeatNone   Repeat = "none"
	RepeatDaily  Repeat = "daily"
	RepeatWeekly Repeat = "weekly"
)

type Mode string

const (
	// ModePublic posts to the shared notification channel.
	ModePublic Mode = "public"
	// ModePrivate delivers by direct message.
	ModePrivate Mode = "private"
)

const (
	StatusScheduled   = "scheduled"
	StatusDispatching = "dispatching"
)

// Sort orders accepted for job alerts.
const (
	FilterDefault      = "default"
	FilterRelevance    = "relevance"
	FilterSalary       = "salary"
	FilterDate         = "date"
	FilterAlphabetical = "alphabetical"
	FilterDistance     = "distance"
)

var validFilters = map[string]bool{
	FilterDefault:      true,
	FilterRelevance:    true,
	FilterSalary:       true,
	FilterDate:         true,
	FilterAlphabetical: true,
	FilterDistance:     true,
}

// ValidFilter reports whether s is a recognised sort preference.
func ValidFilter(s string) bool {
	return validFilters[s]
}

type Reminder struct {
	ID                string
	Owner             string
	Kind              Kind
	Content           string
	Expires           time.Time
	Repeat            Repeat
	Mode              Mode
	FilterBy          string
	EmailNotification bool
	EmailAddress      string
}

// NextExpiry returns the rescheduled expiry for a repeating reminder and
// whether the reminder repeats at all. Daily advances by exactly one calendar
// day, weekly by seven.
func (r Reminder) NextExpiry() (time.Time, bool) {
	switch r.Repeat {
	case RepeatDaily:
		return r.Expires.AddDate(0, 0, 1), true
	case RepeatWeekly:
		return r.Expires.AddDate(0, 0, 7), true
	default:
		return time.Time{}, false
	}
}
