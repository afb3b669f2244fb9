package route

// AggregateRoute folds per-point merged timelines into one route-level
// timeline. The first point's series is the index base; each slot takes the
// maximum combined value across every point that has an entry at that index,
// so a single rainy point surfaces as rain for the whole route. Points with
// shorter series simply stop contributing after their last slot.
func AggregateRoute(points []PointTimeline) RouteTimeline {
	if len(points) == 0 {
		return nil
	}

	base := points[0].Series
	combined := make(RouteTimeline, 0, len(base))

	for i, slot := range base {
		maxPrecip := slot.Combined
		for _, pt := range points {
			if i < len(pt.Series) && pt.Series[i].Combined > maxPrecip {
				maxPrecip = pt.Series[i].Combined
			}
		}
		combined = append(combined, TimedValue{Time: slot.Time, PrecipMM: maxPrecip})
	}

	return combined
}
