package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raincheck/raincheck/internal/geo"
)

const metnoSample = `{
  "properties": {
    "timeseries": [
      {"time": "2026-03-01T08:00:00Z", "data": {"next_1_hours": {"details": {"precipitation_amount": 1.2}}}},
      {"time": "2026-03-01T09:00:00Z", "data": {"next_1_hours": {"details": {}}}},
      {"time": "2026-03-01T10:00:00Z", "data": {}}
    ]
  }
}`

func TestMetNoFetch(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		if r.URL.Query().Get("lat") == "" || r.URL.Query().Get("lon") == "" {
			t.Errorf("expected lat/lon query parameters, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(metnoSample))
	}))
	defer srv.Close()

	p := NewMetNoProvider(srv.Client(), "raincheck-test/1.0")
	p.baseURL = srv.URL

	tl, err := p.Fetch(context.Background(), geo.Coordinate{Latitude: 55.6761, Longitude: 12.5683})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotUserAgent != "raincheck-test/1.0" {
		t.Fatalf("expected identifying User-Agent, got %q", gotUserAgent)
	}

	// Three series entries, capped at two.
	if len(tl) != 2 {
		t.Fatalf("expected timeline truncated to 2 entries, got %d", len(tl))
	}
	if tl[0].PrecipMM != 1.2 {
		t.Fatalf("expected 1.2 mm/h in the first entry, got %v", tl[0].PrecipMM)
	}
	// Missing precipitation amount decodes as no rain.
	if tl[1].PrecipMM != 0.0 {
		t.Fatalf("expected missing amount to read as 0.0, got %v", tl[1].PrecipMM)
	}
	if !tl[1].Time.After(tl[0].Time) {
		t.Fatalf("expected ascending timestamps, got %v then %v", tl[0].Time, tl[1].Time)
	}
}

func TestMetNoFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewMetNoProvider(srv.Client(), "raincheck-test/1.0")
	p.baseURL = srv.URL
	p.policy = retryPolicy{maxRetries: 0, initialDelay: 1, maxDelay: 1}

	if _, err := p.Fetch(context.Background(), geo.Coordinate{}); err == nil {
		t.Fatal("expected an error for a 5xx response")
	}
}
