package geocode

import (
	"context"
	"errors"
	"testing"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		text        string
		city, state string
		country     string
	}{
		{"Copenhagen, Denmark", "Copenhagen", "", "Denmark"},
		{"Copenhagen", "Copenhagen", "", ""},
		{"Portland, Oregon, USA", "Portland", "Oregon", "USA"},
		{" Aarhus ,  Denmark ", "Aarhus", "", "Denmark"},
	}

	for _, tt := range tests {
		addr := parseAddress(tt.text)
		if addr.City != tt.city || addr.State != tt.state || addr.Country != tt.country {
			t.Errorf("parseAddress(%q) = %+v, want city=%q state=%q country=%q",
				tt.text, addr, tt.city, tt.state, tt.country)
		}
	}
}

func TestResolveEmptyText(t *testing.T) {
	g := &GoogleGeocoder{}

	_, err := g.Resolve(context.Background(), "   ")
	if !errors.Is(err, ErrGeocodingFailed) {
		t.Fatalf("expected ErrGeocodingFailed, got %v", err)
	}
}
