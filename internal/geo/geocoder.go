// Package geo holds the address -> coordinate capability and the static-map
// preview URL. It is consumed by the HTTP layer only; the core never calls it.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var ErrNotFound = errors.New("geo: no result for address")

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (Coordinates, error)
}

// NominatimClient geocodes through the OSM Nominatim search endpoint.
type NominatimClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewNominatimClient(baseURL string) *NominatimClient {
	return &NominatimClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// nominatim returns lat/lon as strings
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *NominatimClient) Resolve(ctx context.Context, address string) (Coordinates, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Coordinates{}, err
	}
	req.Header.Set("User-Agent", "realtydesk/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Coordinates{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geo: nominatim status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, err
	}
	if len(results) == 0 {
		return Coordinates{}, ErrNotFound
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, err
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, err
	}
	return Coordinates{Lat: lat, Lon: lon}, nil
}

// StaticMapURL builds the preview image URL for a coordinate pair.
func StaticMapURL(baseURL string, c Coordinates, zoom, width, height int) string {
	q := url.Values{}
	q.Set("center", fmt.Sprintf("%f,%f", c.Lat, c.Lon))
	q.Set("zoom", strconv.Itoa(zoom))
	q.Set("size", fmt.Sprintf("%dx%d", width, height))
	q.Set("markers", fmt.Sprintf("%f,%f,red-pushpin", c.Lat, c.Lon))
	return baseURL + "?" + q.Encode()
}
