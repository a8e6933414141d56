package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kudosd/internal/models"
	"kudosd/internal/services"
	"kudosd/internal/storage"
	"kudosd/internal/testutil"
)

func newHealthController(t *testing.T) (*HealthController, services.SettingsServiceInterface) {
	t.Helper()
	store := testutil.NewMemStore()
	require.NoError(t, store.Set(storage.KeySettings, models.DefaultSettings()))
	svc := services.NewSettingsService(store, &testutil.MockLogger{}, testutil.NewMockMetrics())
	return NewHealthController(svc), svc
}

func TestHealth_OK(t *testing.T) {
	hc, svc := newHealthController(t)
	require.NoError(t, svc.AddProcessedActivity("act_1"))
	require.NoError(t, svc.AddToReviewQueue(
		&models.Activity{ID: "act_1", AthleteName: "Jo", ActivityType: "Ride"},
		&models.Evaluation{IsSignificant: true, Priority: models.PriorityHigh},
	))

	rec := httptest.NewRecorder()
	hc.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.LedgerSize)
	assert.Equal(t, 1, resp.ReviewPending)
	assert.GreaterOrEqual(t, resp.UptimeSeconds, 0.0)
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc, _ := newHealthController(t)

	rec := httptest.NewRecorder()
	hc.Health(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h0m5s", formatDuration(5*time.Second))
	assert.Equal(t, "1h1m1s", formatDuration(time.Hour+time.Minute+time.Second))
	assert.Equal(t, "25h0m0s", formatDuration(25*time.Hour))
}
