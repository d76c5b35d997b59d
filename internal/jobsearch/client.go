package jobsearch

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const milesPerKm = 1.609

type Client struct {
	appID          string
	appKey         string
	baseURL        string
	resultsPerPage int
	defaultCity    string
	defaultJobType string
	defaultMiles   int
	client         http.Client
	cache          *Cache
}

func NewClient(appID, appKey, baseURL string, resultsPerPage int, defaultCity, defaultJobType string, defaultMiles int, cache *Cache) *Client {
	return &Client{
		appID:          appID,
		appKey:         appKey,
		baseURL:        baseURL,
		resultsPerPage: resultsPerPage,
		defaultCity:    defaultCity,
		defaultJobType: defaultJobType,
		defaultMiles:   defaultMiles,
		client:         *http.DefaultClient,
		cache:          cache,
	}
}

// Normalize fills missing request fields with the fallback city, job type and
// distance, and lower-cases what goes into the upstream query.
func (c *Client) Normalize(req Request) Request {
	if strings.TrimSpace(req.City) == "" {
		req.City = c.defaultCity
	}
	if strings.TrimSpace(req.JobType) == "" {
		req.JobType = c.defaultJobType
	}
	req.City = strings.ToLower(strings.TrimSpace(req.City))
	req.JobType = strings.ToLower(strings.TrimSpace(req.JobType))
	return req
}

// DistanceKm converts the free-text miles answer to the kilometre radius the
// upstream expects: round(miles * 1.609), with the configured default when
// the answer is missing or unparseable.
func (c *Client) DistanceKm(distanceMiles string) int {
	miles, err := strconv.ParseFloat(strings.TrimSpace(distanceMiles), 64)
	if err != nil || miles <= 0 {
		miles = float64(c.defaultMiles)
	}
	return int(math.Round(miles * milesPerKm))
}

// JoinInterests builds the OR-matched search term: non-empty interests get
// internal whitespace replaced by hyphens, then are space-joined.
func JoinInterests(interests []string) string {
	terms := make([]string, 0, len(interests))
	for _, interest := range interests {
		interest = strings.TrimSpace(interest)
		if interest == "" {
			continue
		}
		terms = append(terms, strings.Join(strings.Fields(interest), "-"))
	}
	return strings.Join(terms, " ")
}

// CacheKey is the composite, case-normalized listing cache key.
func CacheKey(jobType, city, joinedInterests string) string {
	return strings.ToLower(fmt.Sprintf("%s-%s-%s", jobType, city, joinedInterests))
}

// Search queries the upstream job API and maps raw listings into Results.
// Transport and non-2xx failures are returned to the caller; there is no
// retry and no backoff, the caller decides what to show the user.
func (c *Client) Search(req Request) ([]Result, error) {
	req = c.Normalize(req)
	joined := JoinInterests(req.Interests)
	key := CacheKey(req.JobType, req.City, joined)

	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return c.sorted(cached, req.SortPreference), nil
		}
	}

	q := url.Values{}
	q.Set("app_id", c.appID)
	q.Set("app_key", c.appKey)
	q.Set("results_per_page", strconv.Itoa(c.resultsPerPage))
	q.Set("what", req.JobType)
	q.Set("what_or", joined)
	q.Set("where", req.City)
	q.Set("distance", strconv.Itoa(c.DistanceKm(req.DistanceMiles)))
	// date and salary sorts are native upstream; the rest sort client-side
	if req.SortPreference == "date" || req.SortPreference == "salary" {
		q.Set("sort_by", req.SortPreference)
	}

	body, err := c.get(fmt.Sprintf("%s/search/1?%s", c.baseURL, q.Encode()))
	if err != nil {
		return nil, err
	}

	results := mapResults(body)
	if c.cache != nil {
		if err := c.cache.Set(key, results); err != nil {
			// cache failures never fail the search
			_ = err
		}
	}
	return c.sorted(results, req.SortPreference), nil
}

func (c *Client) sorted(results []Result, sortPreference string) []Result {
	out := make([]Result, len(results))
	copy(out, results)
	Sort(out, sortPreference)
	return out
}

// Histogram fetches the frequency-by-salary-bucket map for a job title.
func (c *Client) Histogram(jobTitle string) (map[string]int, error) {
	q := url.Values{}
	q.Set("app_id", c.appID)
	q.Set("app_key", c.appKey)
	q.Set("what", jobTitle)
	body, err := c.get(fmt.Sprintf("%s/histogram?%s", c.baseURL, q.Encode()))
	if err != nil {
		return nil, err
	}
	buckets := make(map[string]int)
	gjson.GetBytes(body, "histogram").ForEach(func(key, value gjson.Result) bool {
		buckets[key.String()] = int(value.Int())
		return true
	})
	return buckets, nil
}

func (c *Client) get(u string) ([]byte, error) {
	res, err := c.client.Get(u)
	if err != nil {
		return nil, errors.Wrap(err, "unable to call job search api")
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("job search api returned status %d", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read job search api response")
	}
	return body, nil
}

// mapResults reshapes the raw upstream JSON. Salary fields may be numbers or
// missing; both are normalized to the string form the rest of the bot uses.
func mapResults(body []byte) []Result {
	raw := gjson.GetBytes(body, "results")
	results := make([]Result, 0, int(raw.Get("#").Int()))
	raw.ForEach(func(_, job gjson.Result) bool {
		area := ""
		if arr := job.Get("location.area").Array(); len(arr) > 0 {
			parts := make([]string, 0, len(arr))
			for _, a := range arr {
				parts = append(parts, a.String())
			}
			area = strings.Join(parts, ", ")
		}
		results = append(results, Result{
			Title:       job.Get("title").String(),
			Company:     stringOr(job.Get("company.display_name"), "Not Provided"),
			Description: stringOr(job.Get("description"), "No description available"),
			Location:    fmt.Sprintf("%s (%s)", stringOr(job.Get("location.display_name"), "Not Provided"), area),
			Created:     stringOr(job.Get("created"), "Unknown"),
			SalaryMin:   salaryString(job.Get("salary_min")),
			SalaryMax:   salaryString(job.Get("salary_max")),
			Link:        stringOr(job.Get("redirect_url"), "No link available"),
			Latitude:    job.Get("latitude").Float(),
			Longitude:   job.Get("longitude").Float(),
			Distance:    NoDistance,
		})
		return true
	})
	return results
}

func stringOr(v gjson.Result, fallback string) string {
	if !v.Exists() || v.String() == "" {
		return fallback
	}
	return v.String()
}

func salaryString(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return NotListed
	}
	if v.Type == gjson.Number {
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	}
	if _, ok := Salary(v.String()); ok {
		return v.String()
	}
	return NotListed
}
