package geo

import "testing"

var (
	copenhagen = Coordinate{Latitude: 55.6761, Longitude: 12.5683}
	malmo      = Coordinate{Latitude: 55.6050, Longitude: 13.0038}
)

func TestDistanceKnownCityPair(t *testing.T) {
	d := Distance(copenhagen, malmo)
	if d < 27000 || d > 30000 {
		t.Fatalf("expected Copenhagen-Malmo distance around 28km, got %.0fm", d)
	}

	if d := Distance(copenhagen, copenhagen); d != 0 {
		t.Fatalf("expected zero distance to self, got %f", d)
	}
}

func TestSamplePathCoverage(t *testing.T) {
	points := SamplePath(copenhagen, malmo, DefaultSampleIntervalMeters, DefaultMinSpacingMeters)

	if len(points) < 2 {
		t.Fatalf("expected at least 2 sample points, got %d", len(points))
	}
	if points[0] != copenhagen {
		t.Fatalf("expected path to start at the start coordinate, got %+v", points[0])
	}

	// Greedy thinning: every adjacent kept pair honors the minimum spacing,
	// and the path keeps moving start -> end.
	for i := 1; i < len(points); i++ {
		if d := Distance(points[i-1], points[i]); d < DefaultMinSpacingMeters {
			t.Fatalf("points %d and %d are only %.0fm apart", i-1, i, d)
		}
		if points[i].Longitude <= points[i-1].Longitude {
			t.Fatalf("expected longitudes to increase toward the end, got %+v after %+v", points[i], points[i-1])
		}
	}
}

func TestSamplePathSameStartAndEnd(t *testing.T) {
	points := SamplePath(copenhagen, copenhagen, DefaultSampleIntervalMeters, DefaultMinSpacingMeters)

	// Both interpolated points coincide; thinning collapses to one.
	if len(points) != 1 {
		t.Fatalf("expected 1 point for a zero-length route, got %d", len(points))
	}
	if points[0] != copenhagen {
		t.Fatalf("expected the single point to be the start, got %+v", points[0])
	}
}

func TestSamplePathVeryShortRoute(t *testing.T) {
	// About 110m apart: the end point falls inside the minimum spacing and
	// is dropped.
	end := Coordinate{Latitude: copenhagen.Latitude + 0.001, Longitude: copenhagen.Longitude}
	points := SamplePath(copenhagen, end, DefaultSampleIntervalMeters, DefaultMinSpacingMeters)

	if len(points) != 1 {
		t.Fatalf("expected 1 point for a sub-spacing route, got %d", len(points))
	}
}
