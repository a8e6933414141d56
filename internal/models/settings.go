package models

import "time"

// SettingsVersion is the current settings document schema version. Loads of
// older documents run through the migration chain in internal/storage.
const SettingsVersion = 3

type AutoKudosSettings struct {
	Enabled          bool     `json:"enabled"`
	OnlySignificant  bool     `json:"onlySignificant"`
	ExcludedAthletes []string `json:"excludedAthletes"`
	DailyLimit       int      `json:"dailyLimit"`
	DelayMs          int      `json:"delayMs"`
}

type PushoverConfig struct {
	Enabled     bool     `json:"enabled"`
	MinPriority Priority `json:"minPriority"`
	UserKey     string   `json:"userKey"`
	AppToken    string   `json:"appToken"`
}

// WebhookConfig is one entry of the unified webhooks array. Format selects
// the payload builder: discord, slack or generic. Method and Headers apply
// to the generic format only.
type WebhookConfig struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Enabled     bool              `json:"enabled"`
	URL         string            `json:"url"`
	MinPriority Priority          `json:"minPriority"`
	Format      string            `json:"format"`
	Method      string            `json:"method,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type ProvidersConfig struct {
	Pushover PushoverConfig  `json:"pushover"`
	Webhooks []WebhookConfig `json:"webhooks"`
}

type NotificationSettings struct {
	Enabled     bool            `json:"enabled"`
	Preset      string          `json:"preset"`
	CustomRules []Rule          `json:"customRules"`
	Providers   ProvidersConfig `json:"providers"`
}

type AutoRefreshSettings struct {
	Enabled         bool `json:"enabled"`
	IntervalMinutes int  `json:"intervalMinutes"`
}

type Stats struct {
	TotalKudos         int   `json:"totalKudos"`
	TotalNotifications int   `json:"totalNotifications"`
	LastReset          int64 `json:"lastReset"`
}

// ProcessedActivity is one dedup-ledger entry. Timestamp is unix millis.
type ProcessedActivity struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// ReviewQueueItem is a snapshot of a significant activity awaiting manual
// follow-up, keyed by ActivityID.
type ReviewQueueItem struct {
	ActivityID   string       `json:"activityId"`
	AthleteName  string       `json:"athleteName"`
	AthleteID    string       `json:"athleteId,omitempty"`
	ActivityType string       `json:"activityType"`
	Title        string       `json:"title,omitempty"`
	Distance     *Measurement `json:"distance,omitempty"`
	Elevation    *Measurement `json:"elevation,omitempty"`
	Speed        *Measurement `json:"speed,omitempty"`
	Pace         *Measurement `json:"pace,omitempty"`
	HasPR        bool         `json:"hasPR"`
	CommentCount int          `json:"commentCount"`
	Priority     Priority     `json:"priority"`
	IsVIP        bool         `json:"isVIP"`
	AddedAt      int64        `json:"addedAt"`
	Reviewed     bool         `json:"reviewed"`
}

// Settings is the single aggregate configuration document. Mutations are
// whole-document read-modify-write with last-write-wins semantics.
type Settings struct {
	SchemaVersion       int                  `json:"schemaVersion"`
	AutoKudos           AutoKudosSettings    `json:"autoKudos"`
	Notifications       NotificationSettings `json:"notifications"`
	AutoRefresh         AutoRefreshSettings  `json:"autoRefresh"`
	VIPAthletes         []VIPAthlete         `json:"vipAthletes"`
	ReviewQueue         []ReviewQueueItem    `json:"reviewQueue"`
	ProcessedActivities []ProcessedActivity  `json:"processedActivities"`
	Stats               Stats                `json:"stats"`
}

// DailyCounter tracks endorsements given on the device-local calendar day
// named by Date (ISO date string). A differing date resets the count.
type DailyCounter struct {
	Count int    `json:"dailyKudosCount"`
	Date  string `json:"lastResetDate"`
}

// DefaultSettings returns the complete built-in settings document. Consumers
// never observe partial settings: an absent or unreadable stored document
// falls back to this.
func DefaultSettings() *Settings {
	return &Settings{
		SchemaVersion: SettingsVersion,
		AutoKudos: AutoKudosSettings{
			Enabled:          true,
			OnlySignificant:  false,
			ExcludedAthletes: []string{},
			DailyLimit:       100,
			DelayMs:          2000,
		},
		Notifications: NotificationSettings{
			Enabled:     true,
			Preset:      "impressive-efforts",
			CustomRules: []Rule{},
			Providers: ProvidersConfig{
				Pushover: PushoverConfig{
					Enabled:     false,
					MinPriority: PriorityHigh,
				},
				Webhooks: []WebhookConfig{},
			},
		},
		AutoRefresh: AutoRefreshSettings{
			Enabled:         false,
			IntervalMinutes: 5,
		},
		VIPAthletes:         []VIPAthlete{},
		ReviewQueue:         []ReviewQueueItem{},
		ProcessedActivities: []ProcessedActivity{},
		Stats: Stats{
			LastReset: time.Now().UnixMilli(),
		},
	}
}
