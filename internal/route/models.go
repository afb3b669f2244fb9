package route

import (
	"context"
	"fmt"
	"time"

	"github.com/raincheck/raincheck/internal/geo"
)

// ForecastHorizon bounds how far ahead the advisory looks.
const ForecastHorizon = 2 * time.Hour

// maxTimelineEntries caps each provider timeline at its first two entries,
// matching the horizon at hourly resolution.
const maxTimelineEntries = 2

// TimedValue is one forecast sample: precipitation in mm/h at an instant.
type TimedValue struct {
	Time     time.Time `json:"time"`
	PrecipMM float64   `json:"precipMmPerHour"`
}

// Timeline is a time-ascending sequence of forecast samples from a single
// provider. A nil Timeline means the provider contributed nothing.
type Timeline []TimedValue

// MergedPoint is one time slot of a sample point after fusing both
// providers. Primary/Secondary are nil when the provider had no entry near
// the slot; Combined is always derivable from the pair via Combine.
type MergedPoint struct {
	Time      time.Time `json:"time"`
	Primary   *float64  `json:"primary,omitempty"`
	Secondary *float64  `json:"secondary,omitempty"`
	Combined  float64   `json:"combined"`
}

// PointTimeline is the merged series for one route sample point.
type PointTimeline struct {
	Coordinate geo.Coordinate `json:"coordinate"`
	Series     []MergedPoint  `json:"series"`
}

// RouteSnapshot carries the full per-point data for one fetch cycle.
// PointTimelines is parallel to SamplePoints. Read-only once built.
type RouteSnapshot struct {
	SamplePoints   []geo.Coordinate `json:"samplePoints"`
	PointTimelines []PointTimeline  `json:"pointTimelines"`
	StartLabel     string           `json:"startLabel"`
	EndLabel       string           `json:"endLabel"`
}

// RouteTimeline is the route-level series: for each slot, the worst-case
// precipitation anywhere along the route.
type RouteTimeline []TimedValue

// AdvisoryKind enumerates the four advisory states.
type AdvisoryKind string

const (
	AdvisoryFullyClear  AdvisoryKind = "fully_clear"
	AdvisoryClearNow    AdvisoryKind = "clear_now"
	AdvisoryRainingNow  AdvisoryKind = "raining_now"
	AdvisoryPartialRain AdvisoryKind = "partial_rain"
)

// Advisory is the classification result. Exactly the fields belonging to
// Kind are meaningful; Location and AffectedPortion are empty when no route
// commentary could be derived.
type Advisory struct {
	Kind AdvisoryKind `json:"kind"`

	// clear_now
	MinutesUntilRain int    `json:"minutesUntilRain,omitempty"`
	Location         string `json:"location,omitempty"`

	// raining_now
	MinutesUntilLeastRain int     `json:"minutesUntilLeastRain,omitempty"`
	RainIntensity         float64 `json:"rainIntensityMmPerHour,omitempty"`
	AffectedPortion       string  `json:"affectedPortion,omitempty"`

	// partial_rain
	DryWindowStartMinutes int     `json:"dryWindowStartMinutes,omitempty"`
	DryWindowEndMinutes   int     `json:"dryWindowEndMinutes,omitempty"`
	MaxIntensity          float64 `json:"maxIntensityMmPerHour,omitempty"`
}

// Result is one published fetch cycle: the advisory plus the data it was
// derived from.
type Result struct {
	CycleID    string        `json:"cycleId"`
	ComputedAt time.Time     `json:"computedAt"`
	Advisory   Advisory      `json:"advisory"`
	Route      RouteTimeline `json:"route"`
	Snapshot   RouteSnapshot `json:"snapshot"`
}

// Provider abstracts one forecast source. Fetch returns the short
// precipitation timeline for a coordinate or a *ProviderError.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, coord geo.Coordinate) (Timeline, error)
}

// ProviderError wraps a failure from a single forecast source. Provider
// failures are recovered per point and never abort a cycle.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Store is the contract for persisting published cycle results.
type Store interface {
	SaveResult(res Result)
	Latest() (Result, error)
	Range(from, to time.Time) ([]Result, error)
}

// ClampTimeline sorts nothing and trusts provider ordering; it just applies
// the entry cap shared by all providers.
func ClampTimeline(tl Timeline) Timeline {
	if len(tl) > maxTimelineEntries {
		return tl[:maxTimelineEntries]
	}
	return tl
}
