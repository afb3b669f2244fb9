package route

import (
	"fmt"
	"time"
)

const (
	// dryThresholdMM tolerates trace precipitation as "dry".
	dryThresholdMM = 0.1

	// minDryWindow is the shortest dry spell worth acting on.
	minDryWindow = 15 * time.Minute

	// commentaryTolerance bounds the slot lookup when attributing
	// approaching rain to a route position.
	commentaryTolerance = 30 * time.Minute

	// portionThresholdMM is the minimum average intensity before a route
	// third is called out as the wet one.
	portionThresholdMM = 0.2
)

// Classify turns the route-level timeline into a discrete advisory,
// evaluated relative to now. snapshot is optional and only enriches the
// advisory with location commentary; the state itself depends solely on the
// timeline. An empty timeline classifies as fully clear.
func Classify(routeTL RouteTimeline, snapshot *RouteSnapshot, now time.Time) Advisory {
	if len(routeTL) == 0 {
		return Advisory{Kind: AdvisoryFullyClear}
	}

	current := routeTL[0].PrecipMM
	if current <= 0 {
		return classifyClear(routeTL, snapshot, now)
	}
	return classifyRaining(routeTL, snapshot, now, current)
}

func classifyClear(routeTL RouteTimeline, snapshot *RouteSnapshot, now time.Time) Advisory {
	for _, tv := range routeTL {
		if tv.PrecipMM > 0 {
			adv := Advisory{
				Kind:             AdvisoryClearNow,
				MinutesUntilRain: minutesUntil(now, tv.Time),
			}
			if snapshot != nil {
				adv.Location = rainLocation(snapshot, tv.Time)
			}
			return adv
		}
	}
	return Advisory{Kind: AdvisoryFullyClear}
}

func classifyRaining(routeTL RouteTimeline, snapshot *RouteSnapshot, now time.Time, current float64) Advisory {
	if w, ok := firstDryWindow(routeTL); ok {
		maxIntensity := current
		found := false
		for _, tv := range routeTL {
			if tv.Time.Before(now) || tv.Time.After(w.start) {
				continue
			}
			if !found || tv.PrecipMM > maxIntensity {
				maxIntensity = tv.PrecipMM
				found = true
			}
		}

		return Advisory{
			Kind:                  AdvisoryPartialRain,
			DryWindowStartMinutes: minutesUntil(now, w.start),
			DryWindowEndMinutes:   minutesUntil(now, w.end),
			MaxIntensity:          maxIntensity,
		}
	}

	// No actionable dry break: point at the lightest slot instead.
	// Strict comparison keeps the first occurrence on ties.
	driest := routeTL[0]
	for _, tv := range routeTL[1:] {
		if tv.PrecipMM < driest.PrecipMM {
			driest = tv
		}
	}

	adv := Advisory{
		Kind:                  AdvisoryRainingNow,
		MinutesUntilLeastRain: minutesUntil(now, driest.Time),
		RainIntensity:         driest.PrecipMM,
	}
	if snapshot != nil {
		adv.AffectedPortion = rainDistribution(snapshot)
	}
	return adv
}

type dryWindow struct {
	start, end time.Time
}

// firstDryWindow returns the first chronological run of slots at or below
// the dry threshold lasting at least minDryWindow. A run that is still open
// at the end of the timeline is closed with the last slot's time.
func firstDryWindow(routeTL RouteTimeline) (dryWindow, bool) {
	var windows []dryWindow
	var open *time.Time

	for _, tv := range routeTL {
		if tv.PrecipMM <= dryThresholdMM {
			if open == nil {
				start := tv.Time
				open = &start
			}
			continue
		}
		if open != nil {
			windows = append(windows, dryWindow{start: *open, end: tv.Time})
			open = nil
		}
	}
	if open != nil {
		windows = append(windows, dryWindow{start: *open, end: routeTL[len(routeTL)-1].Time})
	}

	for _, w := range windows {
		if w.end.Sub(w.start) >= minDryWindow {
			return w, true
		}
	}
	return dryWindow{}, false
}

// rainLocation attributes approaching rain to a portion of the route: it
// finds the slot nearest rainAt in the base point's series, picks the
// sample point with the heaviest value at that slot, and buckets its
// normalized position along the route.
func rainLocation(snapshot *RouteSnapshot, rainAt time.Time) string {
	if len(snapshot.PointTimelines) == 0 {
		return ""
	}

	slotIdx := -1
	for i, mp := range snapshot.PointTimelines[0].Series {
		d := mp.Time.Sub(rainAt)
		if d < 0 {
			d = -d
		}
		if d < commentaryTolerance {
			slotIdx = i
			break
		}
	}
	if slotIdx < 0 {
		return ""
	}

	maxRainIdx := 0
	maxRain := 0.0
	for pointIdx, pt := range snapshot.PointTimelines {
		if slotIdx >= len(pt.Series) {
			continue
		}
		if rain := pt.Series[slotIdx].Combined; rain > maxRain {
			maxRain = rain
			maxRainIdx = pointIdx
		}
	}

	position := 0.0
	if total := len(snapshot.SamplePoints); total > 1 {
		position = float64(maxRainIdx) / float64(total-1)
	}

	switch {
	case position < 0.3:
		return fmt.Sprintf("near %s", snapshot.StartLabel)
	case position > 0.7:
		return fmt.Sprintf("near %s", snapshot.EndLabel)
	default:
		return "mid-route"
	}
}

// rainDistribution splits the sample points into thirds by index, averages
// each third's first-slot value and names the wettest third, but only when
// its average clears the portion threshold.
func rainDistribution(snapshot *RouteSnapshot) string {
	if len(snapshot.PointTimelines) == 0 {
		return ""
	}

	intensities := make([]float64, 0, len(snapshot.PointTimelines))
	for _, pt := range snapshot.PointTimelines {
		v := 0.0
		if len(pt.Series) > 0 {
			v = pt.Series[0].Combined
		}
		intensities = append(intensities, v)
	}

	third := len(intensities) / 3
	if third == 0 {
		return "throughout route"
	}

	startAvg := average(intensities[:third])
	middleAvg := average(intensities[third : 2*third])
	endAvg := average(intensities[len(intensities)-third:])

	maxAvg := startAvg
	if middleAvg > maxAvg {
		maxAvg = middleAvg
	}
	if endAvg > maxAvg {
		maxAvg = endAvg
	}

	// Check order matters on ties: start, then destination, then middle.
	switch {
	case startAvg == maxAvg && startAvg > portionThresholdMM:
		return "heaviest near start"
	case endAvg == maxAvg && endAvg > portionThresholdMM:
		return "heaviest near destination"
	case middleAvg == maxAvg && middleAvg > portionThresholdMM:
		return "heaviest mid-route"
	default:
		return "throughout route"
	}
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minutesUntil(now, t time.Time) int {
	return int(t.Sub(now).Minutes())
}
