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

// MetNoProvider is the primary forecast source: the MET Norway
// locationforecast 2.0 compact endpoint. Keyless, but the terms of service
// require an identifying User-Agent.
type MetNoProvider struct {
	name      string
	baseURL   string
	userAgent string
	client    *http.Client
	policy    retryPolicy
	circuit   *gobreaker.CircuitBreaker
}

func NewMetNoProvider(client *http.Client, userAgent string) *MetNoProvider {
	return &MetNoProvider{
		name:      "metno",
		baseURL:   "https://api.met.no/weatherapi/locationforecast/2.0/compact",
		userAgent: userAgent,
		client:    client,
		policy:    defaultRetryPolicy(),
		circuit:   newCircuit("metno"),
	}
}

func (p *MetNoProvider) Name() string {
	return p.name
}

func (p *MetNoProvider) Fetch(ctx context.Context, coord geo.Coordinate) (route.Timeline, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", coord.Latitude))
		values.Set("lon", fmt.Sprintf("%f", coord.Longitude))

		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", p.userAgent)
		return req, nil
	}

	resp, err := doResilientGet(ctx, p.client, p.circuit, p.policy, buildRequest)
	if err != nil {
		return nil, &route.ProviderError{Provider: p.name, Err: err}
	}
	defer resp.Body.Close()

	var payload struct {
		Properties struct {
			Timeseries []struct {
				Time time.Time `json:"time"`
				Data struct {
					Next1Hours *struct {
						Details struct {
							PrecipitationAmount *float64 `json:"precipitation_amount"`
						} `json:"details"`
					} `json:"next_1_hours"`
				} `json:"data"`
			} `json:"timeseries"`
		} `json:"properties"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &route.ProviderError{Provider: p.name, Err: err}
	}

	tl := make(route.Timeline, 0, len(payload.Properties.Timeseries))
	for _, entry := range payload.Properties.Timeseries {
		// The last series entries carry no next-hour block; a missing
		// amount counts as no rain.
		precip := 0.0
		if entry.Data.Next1Hours != nil && entry.Data.Next1Hours.Details.PrecipitationAmount != nil {
			precip = *entry.Data.Next1Hours.Details.PrecipitationAmount
		}
		tl = append(tl, route.TimedValue{Time: entry.Time.UTC(), PrecipMM: precip})
	}

	return route.ClampTimeline(tl), nil
}
