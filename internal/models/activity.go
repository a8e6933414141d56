package models

import "strings"

// Measurement is a numeric value paired with the unit it was observed in.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Activity is a single feed entry as delivered by the scraping collaborator.
// ID is the stable per-entry identifier; two records with the same ID refer
// to the same feed entry across rescans.
type Activity struct {
	ID           string       `json:"id"`
	AthleteID    string       `json:"athleteId,omitempty"`
	AthleteName  string       `json:"athleteName"`
	ActivityType string       `json:"activityType"`
	Title        string       `json:"title,omitempty"`
	Distance     *Measurement `json:"distance,omitempty"`
	Elevation    *Measurement `json:"elevation,omitempty"`
	MovingTime   float64      `json:"movingTime,omitempty"`
	Speed        *Measurement `json:"speed,omitempty"`
	Pace         *Measurement `json:"pace,omitempty"`
	HasPR        bool         `json:"hasPR"`
	CommentCount int          `json:"commentCount"`
	HasKudos     bool         `json:"hasKudos"`
}

// Evaluation is the outcome of classifying one activity against the active
// rule set. Priority is the highest tier among matched rules; all matches are
// retained for display and audit.
type Evaluation struct {
	IsSignificant bool     `json:"isSignificant"`
	MatchedRules  []Rule   `json:"matchedRules"`
	Priority      Priority `json:"priority"`
	IsVIP         bool     `json:"isVIP"`
}

// VIPAthlete is an athlete granted an implicit high-priority match.
type VIPAthlete struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// Matches reports whether the entry refers to the given athlete, by id
// equality when both sides carry one, otherwise by case-insensitive trimmed
// name equality.
func (v VIPAthlete) Matches(athleteID, athleteName string) bool {
	if v.ID != "" && athleteID != "" && v.ID == athleteID {
		return true
	}
	if v.Name != "" && athleteName != "" {
		return strings.EqualFold(strings.TrimSpace(v.Name), strings.TrimSpace(athleteName))
	}
	return false
}

// DisplayType renders the activity type for human-facing text.
func (a *Activity) DisplayType() string {
	if a.ActivityType == "VirtualRide" {
		return "Virtual Ride"
	}
	return a.ActivityType
}
