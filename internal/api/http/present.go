package httpapi

import (
	"fmt"

	"github.com/raincheck/raincheck/internal/route"
)

// Display carries everything a thin consumer (menu bar widget, dashboard
// tile) needs to render an advisory without understanding its semantics.
type Display struct {
	Icon        string   `json:"icon"`
	CompactText string   `json:"compactText,omitempty"`
	Headline    string   `json:"headline"`
	Details     []string `json:"details,omitempty"`
}

// Present maps an advisory to its display strings.
func Present(adv route.Advisory) Display {
	switch adv.Kind {
	case route.AdvisoryClearNow:
		d := Display{
			Icon:        "cloud.sun.fill",
			CompactText: compactMinutes(adv.MinutesUntilRain),
			Headline:    fmt.Sprintf("Rain approaching in %s", formatMinutes(adv.MinutesUntilRain)),
		}
		if adv.Location != "" {
			d.Details = append(d.Details, fmt.Sprintf("Expected %s", adv.Location))
		}
		return d

	case route.AdvisoryRainingNow:
		d := Display{
			Icon:        "cloud.rain.fill",
			CompactText: compactMinutes(adv.MinutesUntilLeastRain),
			Headline:    "Rain along route",
			Details: []string{
				fmt.Sprintf("Lightest rain in %s (%.1f mm/h)",
					formatMinutes(adv.MinutesUntilLeastRain), adv.RainIntensity),
			},
		}
		if adv.AffectedPortion != "" {
			d.Details = append(d.Details, fmt.Sprintf("Rain is %s", adv.AffectedPortion))
		}
		return d

	case route.AdvisoryPartialRain:
		return Display{
			Icon:        "cloud.sun.rain.fill",
			CompactText: compactMinutes(adv.DryWindowStartMinutes),
			Headline:    "Dry window opportunity",
			Details: []string{
				fmt.Sprintf("Clear from %s to %s",
					formatMinutes(adv.DryWindowStartMinutes), formatMinutes(adv.DryWindowEndMinutes)),
				fmt.Sprintf("Current max: %.1f mm/h", adv.MaxIntensity),
			},
		}

	default:
		return Display{
			Icon:     "sun.max.fill",
			Headline: "Clear skies along route",
			Details:  []string{"No rain expected for the next 2 hours"},
		}
	}
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	remaining := minutes % 60
	if remaining == 0 {
		if hours > 1 {
			return fmt.Sprintf("%d hours", hours)
		}
		return "1 hour"
	}
	return fmt.Sprintf("%dh %dm", hours, remaining)
}

func compactMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	remaining := minutes % 60
	if remaining == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, remaining)
}
