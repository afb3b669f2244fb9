package route

import "time"

// slotTolerance is how far a provider entry may sit from a slot timestamp
// and still be counted for that slot.
const slotTolerance = 30 * time.Minute

// Provider weights: the primary source is trusted more, the secondary acts
// as additive confirmation.
const (
	primaryWeight   = 0.7
	secondaryWeight = 0.3
)

// HourlySlots returns the slot timestamps merging is anchored to: the top
// of the current hour and the hour after, covering the forecast horizon.
// Both providers publish on-the-hour series, so the slot tolerance lines up
// with their native grid.
func HourlySlots(now time.Time) []time.Time {
	base := now.Truncate(time.Hour)
	return []time.Time{base, base.Add(time.Hour)}
}

// Combine fuses two optional provider values into one. Pure and total:
//
//	both present   -> primary*0.7 + secondary*0.3
//	only primary   -> primary
//	only secondary -> secondary
//	neither        -> 0.0
func Combine(primary, secondary *float64) float64 {
	switch {
	case primary != nil && secondary != nil:
		return *primary*primaryWeight + *secondary*secondaryWeight
	case primary != nil:
		return *primary
	case secondary != nil:
		return *secondary
	default:
		return 0.0
	}
}

// MergeTimelines aligns both provider timelines onto the given slots and
// fuses them. Either timeline may be nil. A provider contributes to a slot
// only if it has an entry within the slot tolerance; the first such entry
// in timeline order wins, keeping the result deterministic.
func MergeTimelines(primary, secondary Timeline, slots []time.Time) []MergedPoint {
	merged := make([]MergedPoint, 0, len(slots))
	for _, slot := range slots {
		p := valueNear(primary, slot)
		s := valueNear(secondary, slot)
		merged = append(merged, MergedPoint{
			Time:      slot,
			Primary:   p,
			Secondary: s,
			Combined:  Combine(p, s),
		})
	}
	return merged
}

func valueNear(tl Timeline, slot time.Time) *float64 {
	for _, tv := range tl {
		d := tv.Time.Sub(slot)
		if d < 0 {
			d = -d
		}
		if d <= slotTolerance {
			v := tv.PrecipMM
			return &v
		}
	}
	return nil
}
