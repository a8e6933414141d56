package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kudosd/internal/dispatch"
	"kudosd/internal/kudos"
	"kudosd/internal/models"
	"kudosd/internal/providers"
	"kudosd/internal/rules"
	"kudosd/internal/services"
	"kudosd/internal/units"
)

const consumerBuffer = 128

type PipelineInterface interface {
	Start()
	Stop()
	Ingest(activity *models.Activity) (*models.Evaluation, error)
	Evaluate(activity *models.Activity) (*models.Evaluation, error)
}

// Pipeline classifies each ingested activity and publishes it to two
// independent consumers: the endorsement worker and the notify consumer.
// The two paths share nothing but the event; each does its own dedup check
// immediately before acting.
type Pipeline struct {
	settings   services.SettingsServiceInterface
	dispatcher dispatch.DispatcherInterface
	worker     kudos.WorkerInterface
	bus        *Bus
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	wg         sync.WaitGroup
}

func NewPipeline(settings services.SettingsServiceInterface, dispatcher dispatch.DispatcherInterface, worker kudos.WorkerInterface, bus *Bus, logger providers.Logger, metrics providers.MetricsProviderInterface) PipelineInterface {
	return &Pipeline{
		settings:   settings,
		dispatcher: dispatcher,
		worker:     worker,
		bus:        bus,
		logger:     logger,
		metrics:    metrics,
	}
}

func (p *Pipeline) Start() {
	kudosEvents := p.bus.Subscribe("kudos", consumerBuffer)
	notifyEvents := p.bus.Subscribe("notify", consumerBuffer)

	p.wg.Add(2)
	go func() {
		defer p.wg.Done()
		for ev := range kudosEvents {
			p.worker.Enqueue(ev.Activity, ev.Evaluation)
		}
	}()
	go func() {
		defer p.wg.Done()
		for ev := range notifyEvents {
			p.notify(ev)
		}
	}()
}

func (p *Pipeline) Stop() {
	p.bus.Close()
	p.wg.Wait()
}

// Evaluate classifies one activity against the active rule set without side
// effects, deriving speed and pace first when possible.
func (p *Pipeline) Evaluate(activity *models.Activity) (*models.Evaluation, error) {
	deriveMetrics(activity)

	settings, err := p.settings.GetSettings()
	if err != nil {
		return nil, err
	}
	active, err := p.settings.GetActiveRules()
	if err != nil {
		return nil, err
	}
	return rules.Evaluate(activity, active, settings.VIPAthletes), nil
}

// Ingest evaluates one activity, attaches the evaluation and fans the event
// out. Redelivery of an already-seen activity is expected and safe.
func (p *Pipeline) Ingest(activity *models.Activity) (*models.Evaluation, error) {
	eval, err := p.Evaluate(activity)
	if err != nil {
		return nil, err
	}
	p.metrics.IncEvaluations(eval.IsSignificant)
	p.logger.Debugf(providers.TypeApp, "Evaluated %s: significant=%t priority=%s vip=%t",
		activity.ID, eval.IsSignificant, eval.Priority, eval.IsVIP)

	p.bus.Publish(Event{Activity: activity, Evaluation: eval})
	return eval, nil
}

// notify handles one significant activity: ledger check, ledger record,
// review-queue snapshot, then the provider fan-out.
func (p *Pipeline) notify(ev Event) {
	if !ev.Evaluation.IsSignificant {
		return
	}
	activity := ev.Activity

	processed, err := p.settings.IsActivityProcessed(activity.ID)
	if err != nil {
		p.logger.Errorf(providers.TypeApp, "Ledger check failed for %s: %s", activity.ID, err)
		return
	}
	if processed {
		p.logger.Debugf(providers.TypeApp, "Already notified for %s", activity.ID)
		return
	}

	if err := p.settings.AddProcessedActivity(activity.ID); err != nil {
		p.logger.Errorf(providers.TypeApp, "Failed to record %s in ledger: %s", activity.ID, err)
		return
	}
	if err := p.settings.AddToReviewQueue(activity, ev.Evaluation); err != nil {
		p.logger.Errorf(providers.TypeApp, "Failed to queue %s for review: %s", activity.ID, err)
	}
	if err := p.settings.IncrementStats(services.StatNotification); err != nil {
		p.logger.Errorf(providers.TypeApp, "Failed to increment notification stat: %s", err)
	}

	icon := "⚡"
	if ev.Evaluation.Priority == models.PriorityCritical {
		icon = "🔥"
	}
	title := fmt.Sprintf("%s %s", icon, activity.AthleteName)
	summary := rules.FormatActivitySummary(activity)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := p.dispatcher.Dispatch(ctx, title, summary, activity.ID, ev.Evaluation.Priority); err != nil {
		p.logger.Errorf(providers.TypeApp, "Dispatch failed for %s: %s", activity.ID, err)
	}
}

// deriveMetrics fills in speed and pace when the producer delivered distance
// and moving time but not the derived pair. Canonical units: mph and
// minutes per mile.
func deriveMetrics(a *models.Activity) {
	if a.Distance == nil || a.MovingTime <= 0 {
		return
	}
	miles := units.ToMiles(a.Distance.Value, a.Distance.Unit)
	if miles <= 0 {
		return
	}
	if a.Speed == nil {
		a.Speed = &models.Measurement{Value: miles / (a.MovingTime / 3600), Unit: units.UnitMph}
	}
	if a.Pace == nil {
		a.Pace = &models.Measurement{Value: (a.MovingTime / 60) / miles, Unit: units.UnitMinMi}
	}
}
