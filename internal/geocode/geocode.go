// Package geocode resolves a city to coordinates and computes great-circle
// distances between listings and the user's preferred city.
package geocode

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// earthRadiusMiles for the haversine formula.
const earthRadiusMiles = 3958.8

// NoDistance is returned when either point has unknown (0,0) coordinates.
const NoDistance = float64(-1)

type Coordinates struct {
	Lat float64
	Lng float64
}

type Client struct {
	apiKey  string
	baseURL string
	client  http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{apiKey: apiKey, baseURL: baseURL, client: *http.DefaultClient}
}

// Lookup geocodes a US city name to a single coordinate pair.
func (c *Client) Lookup(city string) (Coordinates, error) {
	q := url.Values{}
	q.Set("address", city)
	q.Set("components", "country:US")
	q.Set("key", c.apiKey)
	res, err := c.client.Get(fmt.Sprintf("%s?%s", c.baseURL, q.Encode()))
	if err != nil {
		return Coordinates{}, errors.Wrapf(err, "unable to call geocoding api for %q", city)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Coordinates{}, fmt.Errorf("geocoding api returned status %d for %q", res.StatusCode, city)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Coordinates{}, errors.Wrap(err, "unable to read geocoding api response")
	}
	loc := gjson.GetBytes(body, "results.0.geometry.location")
	if !loc.Exists() {
		return Coordinates{}, fmt.Errorf("no coordinates resolvable for %q", city)
	}
	return Coordinates{
		Lat: loc.Get("lat").Float(),
		Lng: loc.Get("lng").Float(),
	}, nil
}

// Distance returns the haversine distance in miles between two points, or
// NoDistance when either point is exactly (0,0). Symmetric by construction.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	if (lat1 == 0 && lng1 == 0) || (lat2 == 0 && lng2 == 0) {
		return NoDistance
	}
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
