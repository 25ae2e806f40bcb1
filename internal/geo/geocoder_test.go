package geo_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"realtydesk/internal/geo"
)

func TestResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		if q := r.URL.Query().Get("q"); q == "" {
			t.Errorf("missing q param")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"40.7484","lon":"-73.9857"}]`))
	}))
	defer srv.Close()

	client := geo.NewNominatimClient(srv.URL)
	coords, err := client.Resolve(context.Background(), "350 5th Ave, New York")
	if err != nil {
		t.Fatal(err)
	}
	if coords.Lat != 40.7484 || coords.Lon != -73.9857 {
		t.Fatalf("unexpected coordinates: %+v", coords)
	}
}

func TestResolveNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := geo.NewNominatimClient(srv.URL)
	_, err := client.Resolve(context.Background(), "nowhere at all")
	if !errors.Is(err, geo.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestStaticMapURL(t *testing.T) {
	u := geo.StaticMapURL("https://example.test/staticmap.php", geo.Coordinates{Lat: 40.7, Lon: -74.0}, 15, 400, 300)
	for _, want := range []string{"zoom=15", "size=400x300", "center="} {
		if !strings.Contains(u, want) {
			t.Fatalf("map URL missing %q: %s", want, u)
		}
	}
}
