package controllers

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"

	"kudosd/internal/dispatch"
	"kudosd/internal/feed"
	"kudosd/internal/models"
	"kudosd/internal/providers"
	"kudosd/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const rulesCacheKey = "rules:active"

type ApiController struct {
	logger     providers.Logger
	settings   services.SettingsServiceInterface
	pipeline   feed.PipelineInterface
	dispatcher dispatch.DispatcherInterface
	cache      providers.CacheProviderInterface
	metrics    providers.MetricsProviderInterface
}

func NewApiController(logger providers.Logger, settings services.SettingsServiceInterface, pipeline feed.PipelineInterface, dispatcher dispatch.DispatcherInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *ApiController {
	return &ApiController{
		logger:     logger,
		settings:   settings,
		pipeline:   pipeline,
		dispatcher: dispatcher,
		cache:      cache,
		metrics:    metrics,
	}
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

// ReceiveActivity ingests one detected activity from the scraping
// collaborator. Redelivery across rescans is expected; the pipeline's
// consumers dedup on their own ledgers.
func (ac *ApiController) ReceiveActivity(w http.ResponseWriter, r *http.Request) {
	var activity models.Activity
	if !ac.decode(w, r, &activity) {
		return
	}
	if activity.ID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	eval, err := ac.pipeline.Ingest(&activity)
	if err != nil {
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "Ingest failed for %s: %s", activity.ID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.writeJSON(w, http.StatusAccepted, eval)
}

// EvaluateActivity classifies a posted activity without side effects.
func (ac *ApiController) EvaluateActivity(w http.ResponseWriter, r *http.Request) {
	var activity models.Activity
	if !ac.decode(w, r, &activity) {
		return
	}

	eval, err := ac.pipeline.Evaluate(&activity)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.writeJSON(w, http.StatusOK, eval)
}

func (ac *ApiController) GetRules(w http.ResponseWriter, r *http.Request) {
	if data, ok := ac.cache.Get(rulesCacheKey); ok {
		ac.metrics.IncCacheHits()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	ac.metrics.IncCacheMisses()

	active, err := ac.settings.GetActiveRules()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(active)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Set(rulesCacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

type notifyRequest struct {
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	ActivityID string          `json:"activityId"`
	Priority   models.Priority `json:"priority"`
}

// Notify triggers a provider fan-out. Fire-and-forget from the caller's
// perspective: delivery errors are logged, never surfaced here.
func (ac *ApiController) Notify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if !ac.decode(w, r, &req) {
		return
	}

	// The request context dies when the handler returns; the fan-out must
	// outlive it.
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if err := ac.dispatcher.Dispatch(ctx, req.Title, req.Message, req.ActivityID, req.Priority); err != nil {
			ac.logger.Errorf(providers.TypeApp, "Dispatch failed for %s: %s", req.ActivityID, err)
		}
	}()
	w.WriteHeader(http.StatusAccepted)
}

func (ac *ApiController) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := ac.settings.GetSettings()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings applies a shallow merge of the posted top-level keys and
// returns the new canonical document.
func (ac *ApiController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	if !ac.decode(w, r, &updates) {
		return
	}

	settings, err := ac.settings.UpdateSettings(updates)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.writeJSON(w, http.StatusOK, settings)
}

func (ac *ApiController) GetReviewQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := ac.settings.GetReviewQueue()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.writeJSON(w, http.StatusOK, queue)
}

type markReviewRequest struct {
	ActivityID string `json:"activityId"`
	Reviewed   bool   `json:"reviewed"`
}

func (ac *ApiController) MarkReviewItem(w http.ResponseWriter, r *http.Request) {
	var req markReviewRequest
	if !ac.decode(w, r, &req) {
		return
	}
	if req.ActivityID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := ac.settings.MarkReviewQueueItem(req.ActivityID, req.Reviewed); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) ClearReviewed(w http.ResponseWriter, r *http.Request) {
	if err := ac.settings.ClearReviewedItems(); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetReviewQueueCount(w http.ResponseWriter, r *http.Request) {
	count, err := ac.settings.ReviewQueueCount()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	settings, err := ac.settings.GetSettings()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	counter, err := ac.settings.LoadDailyCount()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.writeJSON(w, http.StatusOK, map[string]any{
		"totalKudos":         settings.Stats.TotalKudos,
		"totalNotifications": settings.Stats.TotalNotifications,
		"lastReset":          settings.Stats.LastReset,
		"dailyKudosCount":    counter.Count,
	})
}
