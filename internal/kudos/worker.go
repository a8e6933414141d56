package kudos

import (
	"context"
	"math/rand"
	"slices"
	"sync"
	"time"

	"go.uber.org/atomic"

	"kudosd/internal/models"
	"kudosd/internal/providers"
	"kudosd/internal/services"
	"kudosd/internal/structures"
)

const (
	defaultQueueSize = 256
	defaultMaxJitter = time.Second
)

type WorkerInterface interface {
	Start() error
	Stop()
	Enqueue(activity *models.Activity, eval *models.Evaluation)
}

type queueItem struct {
	activity *models.Activity
	eval     *models.Evaluation
}

// Worker serializes endorsement actions: one drain goroutine, at most one
// in-flight endorsement, a humanizing delay between successive actions.
// Redelivered activities are safe; the hasKudos flag and the collaborator's
// own button state carry the action-layer dedup.
type Worker struct {
	settings  services.SettingsServiceInterface
	endorser  Endorser
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	queue     chan queueItem
	maxJitter time.Duration
	baseDelay time.Duration
	daily     atomic.Int64
	dailyDate atomic.String
	dailyMu   sync.Mutex
	stop      chan struct{}
	done      chan struct{}
}

func NewWorker(conf *structures.Config, settings services.SettingsServiceInterface, endorser Endorser, logger providers.Logger, metrics providers.MetricsProviderInterface) WorkerInterface {
	size := conf.Kudos.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	jitter := conf.Kudos.MaxJitter
	if jitter <= 0 {
		jitter = defaultMaxJitter
	}
	return &Worker{
		settings:  settings,
		endorser:  endorser,
		logger:    logger,
		metrics:   metrics,
		queue:     make(chan queueItem, size),
		maxJitter: jitter,
		baseDelay: conf.Kudos.BaseDelay,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (w *Worker) Start() error {
	counter, err := w.settings.LoadDailyCount()
	if err != nil {
		return err
	}
	w.daily.Store(int64(counter.Count))
	w.dailyDate.Store(counter.Date)

	go w.drain()
	return nil
}

func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
}

// Enqueue offers one detected activity to the endorsement queue. Skips are
// decided here, before queueing: disabled, already endorsed, excluded
// athlete, daily limit reached, or not significant when onlySignificant is
// set. A full queue drops the activity; the next rescan redelivers it.
func (w *Worker) Enqueue(activity *models.Activity, eval *models.Evaluation) {
	settings, err := w.settings.GetSettings()
	if err != nil {
		w.logger.Errorf(providers.TypeApp, "Settings read failed, dropping %s: %s", activity.ID, err)
		return
	}
	cfg := settings.AutoKudos

	if !cfg.Enabled {
		return
	}
	if activity.HasKudos {
		w.logger.Debugf(providers.TypeApp, "Already has kudos: %s", activity.ID)
		return
	}
	if activity.AthleteID != "" && slices.Contains(cfg.ExcludedAthletes, activity.AthleteID) {
		w.logger.Debugf(providers.TypeApp, "Athlete excluded: %s", activity.AthleteName)
		return
	}
	if count := w.dailyCount(); count >= int64(cfg.DailyLimit) {
		w.logger.Infof(providers.TypeApp, "Daily limit reached: %d/%d", count, cfg.DailyLimit)
		return
	}
	if cfg.OnlySignificant && (eval == nil || !eval.IsSignificant) {
		w.logger.Debugf(providers.TypeApp, "Not significant, skipping kudos: %s", activity.ID)
		return
	}

	select {
	case w.queue <- queueItem{activity: activity, eval: eval}:
	default:
		w.logger.Warnf(providers.TypeApp, "Kudos queue full, dropping %s", activity.ID)
	}
}

// dailyCount returns the endorsement count for the current calendar day.
// When the day rolls over it reloads the persisted counter, which resets it,
// so a limit hit yesterday does not block today.
func (w *Worker) dailyCount() int64 {
	today := time.Now().Format("2006-01-02")
	if w.dailyDate.Load() != today {
		w.dailyMu.Lock()
		if w.dailyDate.Load() != today {
			counter, err := w.settings.LoadDailyCount()
			if err != nil {
				w.logger.Errorf(providers.TypeApp, "Daily count reload failed: %s", err)
			} else {
				w.daily.Store(int64(counter.Count))
				w.dailyDate.Store(counter.Date)
			}
		}
		w.dailyMu.Unlock()
	}
	return w.daily.Load()
}

func (w *Worker) drain() {
	defer close(w.done)

	for {
		select {
		case <-w.stop:
			return
		case item := <-w.queue:
			w.process(item)
		}
	}
}

func (w *Worker) process(item queueItem) {
	settings, err := w.settings.GetSettings()
	if err != nil {
		w.logger.Errorf(providers.TypeApp, "Settings read failed: %s", err)
		return
	}
	cfg := settings.AutoKudos

	// Re-check immediately before acting; the limit may have been hit while
	// this item sat in the queue. Pending work is dropped, not deferred.
	if w.dailyCount() >= int64(cfg.DailyLimit) {
		dropped := w.flushQueue()
		w.logger.Infof(providers.TypeApp, "Daily limit reached, dropped %d pending endorsements", dropped+1)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = w.endorser.Endorse(ctx, item.activity)
	cancel()
	if err != nil {
		w.logger.Errorf(providers.TypeApp, "Endorsement failed for %s: %s", item.activity.ID, err)
		return
	}

	count := w.daily.Inc()
	if err := w.settings.SaveDailyCount(&models.DailyCounter{
		Count: int(count),
		Date:  w.dailyDate.Load(),
	}); err != nil {
		w.logger.Errorf(providers.TypeApp, "Failed to persist daily count: %s", err)
	}
	if err := w.settings.IncrementStats(services.StatKudos); err != nil {
		w.logger.Errorf(providers.TypeApp, "Failed to increment kudos stat: %s", err)
	}
	w.metrics.IncKudosGiven()
	w.logger.Infof(providers.TypeApp, "Gave kudos for %s (%s), %d today", item.activity.ID, item.activity.AthleteName, count)

	w.pause(cfg.DelayMs)
}

// pause sleeps the humanizing delay: the configured base plus bounded random
// jitter. Stop interrupts the sleep but the completed endorsement stands.
func (w *Worker) pause(delayMs int) {
	delay := time.Duration(delayMs) * time.Millisecond
	if delay <= 0 {
		delay = w.baseDelay
	}
	delay += time.Duration(rand.Int63n(int64(w.maxJitter)))

	select {
	case <-time.After(delay):
	case <-w.stop:
	}
}

func (w *Worker) flushQueue() int {
	dropped := 0
	for {
		select {
		case <-w.queue:
			dropped++
		default:
			return dropped
		}
	}
}
