// Package alert assembles personalized job listing messages: preferences ->
// fetch -> distances -> sort -> composed text, plus the PDF export.
package alert

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/JAZoidberg/SageTeamY/internal/chart"
	"github.com/JAZoidberg/SageTeamY/internal/compose"
	"github.com/JAZoidberg/SageTeamY/internal/geocode"
	"github.com/JAZoidberg/SageTeamY/internal/jobsearch"
	"github.com/JAZoidberg/SageTeamY/internal/pdfexport"
	"github.com/JAZoidberg/SageTeamY/internal/preference"
)

// ErrNoPreferences means the user never filled out the job form. Callers
// answer with guidance, not an error notice.
var ErrNoPreferences = errors.New("user has no stored job preferences")

// Listing is one assembled recommendation set for a user.
type Listing struct {
	Message   string
	Results   []jobsearch.Result
	Interests []string
	City      string
	FilterBy  string
}

type Service struct {
	prefs  *preference.Repository
	search *jobsearch.Client
	geo    *geocode.Client
	log    zerolog.Logger
}

func NewService(prefs *preference.Repository, search *jobsearch.Client, geo *geocode.Client, log zerolog.Logger) *Service {
	return &Service{prefs: prefs, search: search, geo: geo, log: log}
}

// Build fetches and composes the listing message for a user. Distances are
// best-effort: when the city cannot be geocoded every listing keeps the
// sentinel and renders "N/A".
func (s *Service) Build(owner, filterBy string) (Listing, error) {
	p, err := s.prefs.Get(owner)
	if err == preference.ErrNotFound {
		return Listing{}, ErrNoPreferences
	}
	if err != nil {
		return Listing{}, err
	}

	results, err := s.search.Search(jobsearch.Request{
		City:           p.City,
		JobType:        p.EmploymentType,
		WorkType:       p.WorkType,
		DistanceMiles:  p.TravelDistance,
		Interests:      p.Interests,
		SortPreference: filterBy,
	})
	if err != nil {
		return Listing{}, errors.Wrapf(err, "unable to fetch listings for owner %s", owner)
	}

	city := p.City
	if city == "" {
		city = "newark"
	}
	if coords, err := s.geo.Lookup(city); err != nil {
		s.log.Warn().Err(err).Str("city", city).Msg("geocoding failed, distances unavailable")
	} else {
		for i := range results {
			results[i].Distance = geocode.Distance(coords.Lat, coords.Lng, results[i].Latitude, results[i].Longitude)
		}
		// distance sort only becomes meaningful once distances are known
		if filterBy == "distance" {
			jobsearch.Sort(results, filterBy)
		}
	}

	return Listing{
		Message:   compose.JobMessage(owner, p.Interests, results),
		Results:   results,
		Interests: p.Interests,
		City:      city,
		FilterBy:  filterBy,
	}, nil
}

// ListingFromResults rebuilds a Listing from an existing result set, e.g.
// a pagination session, without refetching.
func (s *Service) ListingFromResults(owner string, results []jobsearch.Result, city, filterBy string) Listing {
	var interests []string
	if p, err := s.prefs.Get(owner); err == nil {
		interests = p.Interests
	}
	return Listing{
		Message:   compose.JobMessage(owner, interests, results),
		Results:   results,
		Interests: interests,
		City:      city,
		FilterBy:  filterBy,
	}
}

// BuildPDF renders the PDF export, fetching a salary histogram per listing.
// Chart failures skip the chart rather than failing the export.
func (s *Service) BuildPDF(l Listing) ([]byte, error) {
	charts := make(map[int][]byte)
	for i, r := range l.Results {
		histogram, err := s.search.Histogram(r.Title)
		if err != nil {
			s.log.Warn().Err(err).Str("title", r.Title).Msg("histogram fetch failed")
			continue
		}
		buckets := chart.SortBuckets(histogram)
		if !chart.HasData(buckets) {
			continue
		}
		png, err := chart.Render(buckets, r.Title)
		if err != nil {
			s.log.Warn().Err(err).Str("title", r.Title).Msg("chart render failed")
			continue
		}
		charts[i] = png
	}
	return pdfexport.Export(l.Results, l.City, charts)
}
