package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/raincheck/raincheck/internal/geo"
	"github.com/raincheck/raincheck/internal/route"
)

// TomorrowProvider is the secondary forecast source: the Tomorrow.io hourly
// forecast API. It needs an API key; running without one is an expected
// configuration, in which case every fetch fails and the pipeline degrades
// to primary-only data.
type TomorrowProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	policy  retryPolicy
	circuit *gobreaker.CircuitBreaker
}

func NewTomorrowProvider(client *http.Client, apiKey string) *TomorrowProvider {
	return &TomorrowProvider{
		name:    "tomorrowio",
		apiKey:  apiKey,
		baseURL: "https://api.tomorrow.io/v4/weather/forecast",
		client:  client,
		policy:  defaultRetryPolicy(),
		circuit: newCircuit("tomorrowio"),
	}
}

func (p *TomorrowProvider) Name() string {
	return p.name
}

func (p *TomorrowProvider) Fetch(ctx context.Context, coord geo.Coordinate) (route.Timeline, error) {
	if p.apiKey == "" {
		return nil, &route.ProviderError{Provider: p.name, Err: fmt.Errorf("api key is not configured")}
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("location", fmt.Sprintf("%f,%f", coord.Latitude, coord.Longitude))
		values.Set("timesteps", "1h")
		values.Set("units", "metric")
		values.Set("apikey", p.apiKey)

		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	resp, err := doResilientGet(ctx, p.client, p.circuit, p.policy, buildRequest)
	if err != nil {
		return nil, &route.ProviderError{Provider: p.name, Err: err}
	}
	defer resp.Body.Close()

	var payload struct {
		Timelines struct {
			Hourly []struct {
				Time   time.Time `json:"time"`
				Values struct {
					RainIntensity *float64 `json:"rainIntensity"`
				} `json:"values"`
			} `json:"hourly"`
		} `json:"timelines"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &route.ProviderError{Provider: p.name, Err: err}
	}

	// Only the next couple of hours matter; drop anything past the horizon
	// before applying the shared entry cap.
	cutoff := time.Now().UTC().Add(route.ForecastHorizon)

	tl := make(route.Timeline, 0, len(payload.Timelines.Hourly))
	for _, entry := range payload.Timelines.Hourly {
		if entry.Time.After(cutoff) {
			continue
		}
		precip := 0.0
		if entry.Values.RainIntensity != nil {
			precip = *entry.Values.RainIntensity
		}
		tl = append(tl, route.TimedValue{Time: entry.Time.UTC(), PrecipMM: precip})
	}

	return route.ClampTimeline(tl), nil
}
