package rules

import (
	"fmt"
	"math"
	"strings"

	"kudosd/internal/models"
)

// FormatActivitySummary builds the multi-line notification body for one
// classified activity: type and title, then a stats line, then a PR marker.
func FormatActivitySummary(activity *models.Activity) string {
	parts := []string{}

	if activity.Title != "" {
		parts = append(parts, fmt.Sprintf("%s: %s", activity.DisplayType(), activity.Title))
	} else {
		parts = append(parts, activity.DisplayType())
	}

	stats := []string{}
	if activity.Distance != nil {
		stats = append(stats, fmt.Sprintf("%.1f %s", activity.Distance.Value, activity.Distance.Unit))
	}

	at := strings.ToLower(activity.ActivityType)
	if activity.Speed != nil && (at == "ride" || at == "virtualride") {
		stats = append(stats, fmt.Sprintf("%.1f %s avg", activity.Speed.Value, activity.Speed.Unit))
	}
	if activity.Pace != nil && at == "run" {
		stats = append(stats, fmt.Sprintf("%s pace", FormatPace(activity.Pace.Value)))
	}
	if activity.Elevation != nil && activity.Elevation.Value > 0 {
		stats = append(stats, fmt.Sprintf("%.0f %s elev", activity.Elevation.Value, activity.Elevation.Unit))
	}
	if len(stats) > 0 {
		parts = append(parts, strings.Join(stats, " • "))
	}

	if activity.HasPR {
		parts = append(parts, "🏆 PR")
	}

	return strings.Join(parts, "\n")
}

// FormatPace renders minutes-per-mile as m:ss.
func FormatPace(minutesPerMile float64) string {
	minutes := int(minutesPerMile)
	seconds := int(math.Round((minutesPerMile - float64(minutes)) * 60))
	if seconds == 60 {
		minutes++
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
