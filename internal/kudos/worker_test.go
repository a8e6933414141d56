package kudos

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kudosd/internal/models"
	"kudosd/internal/services"
	"kudosd/internal/storage"
	"kudosd/internal/structures"
	"kudosd/internal/testutil"
)

// recordingEndorser counts Endorse calls and optionally fails them.
type recordingEndorser struct {
	mu    sync.Mutex
	ids   []string
	err   error
	delay time.Duration
}

func (e *recordingEndorser) Endorse(_ context.Context, activity *models.Activity) error {
	if e.delay > 0 {
		time.Sleep(e.delay)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.ids = append(e.ids, activity.ID)
	return nil
}

func (e *recordingEndorser) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.ids)
}

func testConfig() *structures.Config {
	conf := &structures.Config{}
	conf.Kudos.QueueSize = 16
	conf.Kudos.BaseDelay = time.Millisecond
	conf.Kudos.MaxJitter = time.Millisecond
	return conf
}

func newTestWorker(t *testing.T, mutate func(*models.Settings)) (WorkerInterface, *recordingEndorser, services.SettingsServiceInterface, *testutil.MockMetrics) {
	t.Helper()

	settings := models.DefaultSettings()
	settings.AutoKudos.DelayMs = 1
	if mutate != nil {
		mutate(settings)
	}

	store := testutil.NewMemStore()
	require.NoError(t, store.Set(storage.KeySettings, settings))

	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	svc := services.NewSettingsService(store, logger, metrics)
	endorser := &recordingEndorser{}

	w := NewWorker(testConfig(), svc, endorser, logger, metrics)
	return w, endorser, svc, metrics
}

func kudosActivity(id string) *models.Activity {
	return &models.Activity{ID: id, AthleteID: "ath1", AthleteName: "Jo Rider", ActivityType: "Ride"}
}

func significant() *models.Evaluation {
	return &models.Evaluation{IsSignificant: true, Priority: models.PriorityHigh}
}

func TestWorker_EndorsesQueuedActivities(t *testing.T) {
	w, endorser, svc, metrics := newTestWorker(t, nil)
	require.NoError(t, w.Start())
	defer w.Stop()

	w.Enqueue(kudosActivity("act_1"), significant())
	w.Enqueue(kudosActivity("act_2"), significant())
	w.Enqueue(kudosActivity("act_3"), significant())

	require.Eventually(t, func() bool { return endorser.count() == 3 }, 3*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool { return metrics.KudosCount() == 3 }, 3*time.Second, 10*time.Millisecond)

	counter, err := svc.LoadDailyCount()
	require.NoError(t, err)
	assert.Equal(t, 3, counter.Count)

	settings, err := svc.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, 3, settings.Stats.TotalKudos)
}

func TestWorker_SkipsWhenDisabled(t *testing.T) {
	w, endorser, _, _ := newTestWorker(t, func(s *models.Settings) {
		s.AutoKudos.Enabled = false
	})
	require.NoError(t, w.Start())
	defer w.Stop()

	w.Enqueue(kudosActivity("act_1"), significant())

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, endorser.count())
}

func TestWorker_SkipsAlreadyKudoed(t *testing.T) {
	w, endorser, _, _ := newTestWorker(t, nil)
	require.NoError(t, w.Start())
	defer w.Stop()

	activity := kudosActivity("act_1")
	activity.HasKudos = true
	w.Enqueue(activity, significant())

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, endorser.count())
}

func TestWorker_SkipsExcludedAthlete(t *testing.T) {
	w, endorser, _, _ := newTestWorker(t, func(s *models.Settings) {
		s.AutoKudos.ExcludedAthletes = []string{"ath1"}
	})
	require.NoError(t, w.Start())
	defer w.Stop()

	w.Enqueue(kudosActivity("act_1"), significant())

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, endorser.count())
}

func TestWorker_OnlySignificantGate(t *testing.T) {
	w, endorser, _, _ := newTestWorker(t, func(s *models.Settings) {
		s.AutoKudos.OnlySignificant = true
	})
	require.NoError(t, w.Start())
	defer w.Stop()

	w.Enqueue(kudosActivity("act_1"), &models.Evaluation{IsSignificant: false})
	w.Enqueue(kudosActivity("act_2"), nil)
	w.Enqueue(kudosActivity("act_3"), significant())

	require.Eventually(t, func() bool { return endorser.count() == 1 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, endorser.count())
}

func TestWorker_DailyLimitStopsEndorsements(t *testing.T) {
	w, endorser, _, _ := newTestWorker(t, func(s *models.Settings) {
		s.AutoKudos.DailyLimit = 2
	})
	require.NoError(t, w.Start())
	defer w.Stop()

	w.Enqueue(kudosActivity("act_1"), significant())
	w.Enqueue(kudosActivity("act_2"), significant())
	w.Enqueue(kudosActivity("act_3"), significant())
	w.Enqueue(kudosActivity("act_4"), significant())

	require.Eventually(t, func() bool { return endorser.count() == 2 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 2, endorser.count())
}

func TestWorker_StartLoadsPersistedDailyCount(t *testing.T) {
	w, endorser, svc, _ := newTestWorker(t, func(s *models.Settings) {
		s.AutoKudos.DailyLimit = 10
	})
	require.NoError(t, svc.SaveDailyCount(&models.DailyCounter{
		Count: 10,
		Date:  time.Now().Format("2006-01-02"),
	}))
	require.NoError(t, w.Start())
	defer w.Stop()

	w.Enqueue(kudosActivity("act_1"), significant())

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, endorser.count())
}

func TestWorker_DayRolloverResetsLimit(t *testing.T) {
	w, endorser, svc, _ := newTestWorker(t, func(s *models.Settings) {
		s.AutoKudos.DailyLimit = 2
	})
	require.NoError(t, w.Start())
	defer w.Stop()

	// Simulate yesterday hitting the limit: the in-memory counter is at the
	// limit under yesterday's date while the store already holds today's
	// reset counter, as left by the maintenance sweep.
	worker := w.(*Worker)
	worker.daily.Store(2)
	worker.dailyDate.Store(time.Now().AddDate(0, 0, -1).Format("2006-01-02"))

	w.Enqueue(kudosActivity("act_1"), significant())

	require.Eventually(t, func() bool { return endorser.count() == 1 }, 3*time.Second, 10*time.Millisecond)

	counter, err := svc.LoadDailyCount()
	require.NoError(t, err)
	assert.Equal(t, 1, counter.Count)
	assert.Equal(t, time.Now().Format("2006-01-02"), counter.Date)
}

func TestWorker_EndorseFailureDoesNotCount(t *testing.T) {
	w, endorser, svc, metrics := newTestWorker(t, nil)
	endorser.err = errors.New("click failed")
	require.NoError(t, w.Start())
	defer w.Stop()

	w.Enqueue(kudosActivity("act_1"), significant())

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, metrics.KudosCount())

	counter, err := svc.LoadDailyCount()
	require.NoError(t, err)
	assert.Zero(t, counter.Count)
}
