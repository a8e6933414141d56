// Package maintain runs the periodic housekeeping jobs: store persistence,
// ledger sweeps and daily-counter rollover.
package maintain

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"kudosd/internal/maintain/interfaces"
	"kudosd/internal/providers"
	"kudosd/internal/services"
	"kudosd/internal/storage"
	"kudosd/internal/structures"
)

const defaultRetentionDays = 7

type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	settings services.SettingsServiceInterface
	store    *storage.FileStore
	metrics  providers.MetricsProviderInterface
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	saveInterval := s.config.Persistence.SaveInterval
	sweepInterval := s.config.Ledger.SweepInterval

	s.cron.AddFunc(gron.Every(saveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		start := time.Now()
		if err := s.store.Persist(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.metrics.ObservePersistenceDuration(time.Since(start))
		s.logger.Debugf(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	})

	s.cron.AddFunc(gron.Every(sweepInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		s.sweep()
	})

	s.cron.Start()
}

// sweep prunes ledger entries past the retention window and rolls the daily
// counter over when the calendar day changed.
func (s *Scheduler) sweep() {
	retention := time.Duration(s.retentionDays()) * 24 * time.Hour
	removed, err := s.settings.PruneProcessedActivities(retention)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Ledger sweep failed: %s", err)
	} else if removed > 0 {
		s.logger.Infof(providers.TypeApp, "Ledger sweep removed %d entries older than %s", removed, retention)
	}

	if _, err := s.settings.LoadDailyCount(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Daily counter rollover failed: %s", err)
	}
}

func (s *Scheduler) retentionDays() int {
	if s.config.Ledger.RetentionDays > 0 {
		return s.config.Ledger.RetentionDays
	}
	return defaultRetentionDays
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.store.Load()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting store to file...")
	if err := s.store.Persist(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, settings services.SettingsServiceInterface, store *storage.FileStore, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		settings: settings,
		store:    store,
		metrics:  metrics,
	}
}
