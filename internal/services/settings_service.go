package services

import (
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"kudosd/internal/models"
	"kudosd/internal/providers"
	"kudosd/internal/rules"
	"kudosd/internal/storage"
)

const (
	// maxProcessedActivities bounds the dedup ledger; oldest entries are
	// evicted first.
	maxProcessedActivities = 1000
	// maxReviewQueueItems bounds the review queue the same way.
	maxReviewQueueItems = 100

	StatKudos        = "kudos"
	StatNotification = "notification"

	dateLayout = "2006-01-02"
)

type SettingsServiceInterface interface {
	GetSettings() (*models.Settings, error)
	UpdateSettings(updates map[string]any) (*models.Settings, error)
	GetActiveRules() ([]models.Rule, error)
	AddProcessedActivity(id string) error
	IsActivityProcessed(id string) (bool, error)
	PruneProcessedActivities(maxAge time.Duration) (int, error)
	IncrementStats(kind string) error
	AddToReviewQueue(activity *models.Activity, eval *models.Evaluation) error
	GetReviewQueue() ([]models.ReviewQueueItem, error)
	MarkReviewQueueItem(activityID string, reviewed bool) error
	ClearReviewedItems() error
	ReviewQueueCount() (int, error)
	LoadDailyCount() (*models.DailyCounter, error)
	SaveDailyCount(counter *models.DailyCounter) error
}

// SettingsService owns every read-modify-write cycle on the settings
// document. The mutex serializes cycles within this process; the store
// itself offers no compare-and-swap, so concurrent writers from outside the
// process remain last-write-wins.
type SettingsService struct {
	store   storage.StoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	mu      sync.Mutex
}

func NewSettingsService(store storage.StoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) SettingsServiceInterface {
	return &SettingsService{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// loadSettings reads the stored settings document, running the migration
// chain when it carries an old schema version. An absent or unreadable
// document yields the complete built-in defaults; consumers never observe
// partial settings.
func (ss *SettingsService) loadSettings() *models.Settings {
	raw, ok, err := ss.store.Get(storage.KeySettings)
	if err != nil {
		ss.logger.Errorf(providers.TypeApp, "Settings read failed, using defaults: %s", err)
		return models.DefaultSettings()
	}
	if !ok {
		return models.DefaultSettings()
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		ss.logger.Errorf(providers.TypeApp, "Malformed settings document, using defaults: %s", err)
		return models.DefaultSettings()
	}

	if storage.MigrateSettings(doc) {
		ss.logger.Warnf(providers.TypeApp, "Migrated settings document to schema v%d", models.SettingsVersion)
		if err := ss.store.Set(storage.KeySettings, doc); err != nil {
			ss.logger.Errorf(providers.TypeApp, "Failed to persist migrated settings: %s", err)
		}
	}

	migrated, err := json.Marshal(doc)
	if err != nil {
		return models.DefaultSettings()
	}
	settings := models.DefaultSettings()
	if err := json.Unmarshal(migrated, settings); err != nil {
		ss.logger.Errorf(providers.TypeApp, "Settings decode failed, using defaults: %s", err)
		return models.DefaultSettings()
	}
	return settings
}

func (ss *SettingsService) saveSettings(settings *models.Settings) error {
	return ss.store.Set(storage.KeySettings, settings)
}

func (ss *SettingsService) GetSettings() (*models.Settings, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.loadSettings(), nil
}

// UpdateSettings applies a shallow merge: each top-level key in updates
// replaces the corresponding key in the stored document. Nested objects are
// not deep-merged; callers needing that read and write the full structure.
func (ss *SettingsService) UpdateSettings(updates map[string]any) (*models.Settings, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	current, err := json.Marshal(ss.loadSettings())
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(current, &doc); err != nil {
		return nil, err
	}

	for key, value := range updates {
		doc[key] = value
	}
	doc["schemaVersion"] = models.SettingsVersion

	if err := ss.store.Set(storage.KeySettings, doc); err != nil {
		return nil, err
	}
	return ss.loadSettings(), nil
}

// GetActiveRules resolves the currently active rule list: preset rules plus
// custom rules plus the implicit VIP rule when the VIP list is non-empty.
func (ss *SettingsService) GetActiveRules() ([]models.Rule, error) {
	settings, err := ss.GetSettings()
	if err != nil {
		return nil, err
	}
	n := settings.Notifications
	return rules.Resolve(n.Preset, n.CustomRules, settings.VIPAthletes), nil
}

func (ss *SettingsService) AddProcessedActivity(id string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	settings := ss.loadSettings()
	settings.ProcessedActivities = append(settings.ProcessedActivities, models.ProcessedActivity{
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
	})
	if len(settings.ProcessedActivities) > maxProcessedActivities {
		settings.ProcessedActivities = settings.ProcessedActivities[len(settings.ProcessedActivities)-maxProcessedActivities:]
	}

	if err := ss.saveSettings(settings); err != nil {
		return err
	}
	ss.metrics.SetLedgerSize(len(settings.ProcessedActivities))
	return nil
}

func (ss *SettingsService) IsActivityProcessed(id string) (bool, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	settings := ss.loadSettings()
	for _, entry := range settings.ProcessedActivities {
		if entry.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// PruneProcessedActivities drops ledger entries older than maxAge and
// returns how many were removed.
func (ss *SettingsService) PruneProcessedActivities(maxAge time.Duration) (int, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	settings := ss.loadSettings()
	cutoff := time.Now().Add(-maxAge).UnixMilli()

	kept := settings.ProcessedActivities[:0]
	for _, entry := range settings.ProcessedActivities {
		if entry.Timestamp > cutoff {
			kept = append(kept, entry)
		}
	}
	removed := len(settings.ProcessedActivities) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	settings.ProcessedActivities = kept
	if err := ss.saveSettings(settings); err != nil {
		return 0, err
	}
	ss.metrics.SetLedgerSize(len(settings.ProcessedActivities))
	return removed, nil
}

func (ss *SettingsService) IncrementStats(kind string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	settings := ss.loadSettings()
	switch kind {
	case StatKudos:
		settings.Stats.TotalKudos++
	case StatNotification:
		settings.Stats.TotalNotifications++
	default:
		return nil
	}
	return ss.saveSettings(settings)
}

// AddToReviewQueue snapshots a significant activity for manual follow-up.
// Insertion is idempotent per activity id.
func (ss *SettingsService) AddToReviewQueue(activity *models.Activity, eval *models.Evaluation) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	settings := ss.loadSettings()
	for _, item := range settings.ReviewQueue {
		if item.ActivityID == activity.ID {
			return nil
		}
	}

	settings.ReviewQueue = append(settings.ReviewQueue, models.ReviewQueueItem{
		ActivityID:   activity.ID,
		AthleteName:  activity.AthleteName,
		AthleteID:    activity.AthleteID,
		ActivityType: activity.ActivityType,
		Title:        activity.Title,
		Distance:     activity.Distance,
		Elevation:    activity.Elevation,
		Speed:        activity.Speed,
		Pace:         activity.Pace,
		HasPR:        activity.HasPR,
		CommentCount: activity.CommentCount,
		Priority:     eval.Priority,
		IsVIP:        eval.IsVIP,
		AddedAt:      time.Now().UnixMilli(),
		Reviewed:     false,
	})
	if len(settings.ReviewQueue) > maxReviewQueueItems {
		settings.ReviewQueue = settings.ReviewQueue[len(settings.ReviewQueue)-maxReviewQueueItems:]
	}

	if err := ss.saveSettings(settings); err != nil {
		return err
	}
	ss.metrics.SetReviewQueueSize(len(settings.ReviewQueue))
	return nil
}

func (ss *SettingsService) GetReviewQueue() ([]models.ReviewQueueItem, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.loadSettings().ReviewQueue, nil
}

func (ss *SettingsService) MarkReviewQueueItem(activityID string, reviewed bool) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	settings := ss.loadSettings()
	for i := range settings.ReviewQueue {
		if settings.ReviewQueue[i].ActivityID == activityID {
			settings.ReviewQueue[i].Reviewed = reviewed
			return ss.saveSettings(settings)
		}
	}
	return nil
}

func (ss *SettingsService) ClearReviewedItems() error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	settings := ss.loadSettings()
	kept := settings.ReviewQueue[:0]
	for _, item := range settings.ReviewQueue {
		if !item.Reviewed {
			kept = append(kept, item)
		}
	}
	settings.ReviewQueue = kept

	if err := ss.saveSettings(settings); err != nil {
		return err
	}
	ss.metrics.SetReviewQueueSize(len(settings.ReviewQueue))
	return nil
}

// ReviewQueueCount returns the number of unreviewed items.
func (ss *SettingsService) ReviewQueueCount() (int, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	count := 0
	for _, item := range ss.loadSettings().ReviewQueue {
		if !item.Reviewed {
			count++
		}
	}
	return count, nil
}

// LoadDailyCount reads the daily endorsement counter, resetting it to zero
// whenever the stored date differs from the device-local calendar day.
func (ss *SettingsService) LoadDailyCount() (*models.DailyCounter, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	today := time.Now().Format(dateLayout)
	counter := &models.DailyCounter{Date: today}

	raw, ok, err := ss.store.Get(storage.KeyDailyCounter)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := json.Unmarshal(raw, counter); err != nil {
			ss.logger.Warnf(providers.TypeApp, "Malformed daily counter, resetting: %s", err)
			counter = &models.DailyCounter{Date: today}
		}
	}

	if counter.Date != today {
		counter.Count = 0
		counter.Date = today
		if err := ss.store.Set(storage.KeyDailyCounter, counter); err != nil {
			return nil, err
		}
	}
	return counter, nil
}

func (ss *SettingsService) SaveDailyCount(counter *models.DailyCounter) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.store.Set(storage.KeyDailyCounter, counter)
}
