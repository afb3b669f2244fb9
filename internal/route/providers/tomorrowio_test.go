package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raincheck/raincheck/internal/geo"
	"github.com/raincheck/raincheck/internal/route"
)

func TestTomorrowFetchWithoutKey(t *testing.T) {
	p := NewTomorrowProvider(http.DefaultClient, "")

	_, err := p.Fetch(context.Background(), geo.Coordinate{})
	if err == nil {
		t.Fatal("expected an error without an api key")
	}

	var perr *route.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected a ProviderError, got %T", err)
	}
	if perr.Provider != "tomorrowio" {
		t.Fatalf("expected the provider name in the error, got %q", perr.Provider)
	}
}

func TestTomorrowFetchHorizonAndCap(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Hour)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "secret" {
			t.Errorf("expected apikey query parameter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"timelines": {"hourly": [
			{"time": %q, "values": {"rainIntensity": 0.6}},
			{"time": %q, "values": {}},
			{"time": %q, "values": {"rainIntensity": 9.0}}
		]}}`,
			now.Format(time.RFC3339),
			now.Add(time.Hour).Format(time.RFC3339),
			now.Add(5*time.Hour).Format(time.RFC3339))
	}))
	defer srv.Close()

	p := NewTomorrowProvider(srv.Client(), "secret")
	p.baseURL = srv.URL

	tl, err := p.Fetch(context.Background(), geo.Coordinate{Latitude: 55.6761, Longitude: 12.5683})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The 5-hour entry is past the horizon; the rest is capped at two.
	if len(tl) != 2 {
		t.Fatalf("expected 2 entries within the horizon, got %d", len(tl))
	}
	if tl[0].PrecipMM != 0.6 {
		t.Fatalf("expected 0.6 mm/h in the first entry, got %v", tl[0].PrecipMM)
	}
	if tl[1].PrecipMM != 0.0 {
		t.Fatalf("expected missing intensity to read as 0.0, got %v", tl[1].PrecipMM)
	}
}
