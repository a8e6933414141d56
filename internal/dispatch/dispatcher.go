// Package dispatch fans classified-activity notifications out to the
// configured providers: the Pushover push service plus any number of
// discord/slack/generic webhooks.
package dispatch

import (
	"context"
	"sync"

	"kudosd/internal/models"
	"kudosd/internal/providers"
	"kudosd/internal/services"
	"kudosd/internal/structures"
)

const defaultActivityBaseURL = "https://www.strava.com/activities/"

type DispatcherInterface interface {
	Dispatch(ctx context.Context, title, message, activityID string, priority models.Priority) error
}

type Dispatcher struct {
	settings    services.SettingsServiceInterface
	client      providers.HTTPClientInterface
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	activityURL string
}

func NewDispatcher(conf *structures.Config, settings services.SettingsServiceInterface, client providers.HTTPClientInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) DispatcherInterface {
	activityURL := conf.Dispatch.ActivityURL
	if activityURL == "" {
		activityURL = defaultActivityBaseURL
	}
	return &Dispatcher{
		settings:    settings,
		client:      client,
		logger:      logger,
		metrics:     metrics,
		activityURL: activityURL,
	}
}

type target struct {
	name string
	send func(ctx context.Context) error
}

// Dispatch delivers one notification to every eligible provider
// concurrently. A provider is eligible when it is enabled and the activity
// priority meets its configured minimum. Individual delivery failures are
// logged and counted but never fail the operation or their siblings; the
// dispatch succeeds once every eligible provider was attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, title, message, activityID string, priority models.Priority) error {
	settings, err := d.settings.GetSettings()
	if err != nil {
		return err
	}

	if !settings.Notifications.Enabled {
		d.logger.Debugf(providers.TypeApp, "Notifications disabled, skipping dispatch for %s", activityID)
		return nil
	}

	cfg := settings.Notifications.Providers
	link := d.activityURL + activityID
	targets := make([]target, 0, 1+len(cfg.Webhooks))

	if cfg.Pushover.Enabled {
		if priority.Meets(cfg.Pushover.MinPriority) {
			pushover := cfg.Pushover
			targets = append(targets, target{
				name: "pushover",
				send: func(ctx context.Context) error {
					return d.sendPushover(ctx, pushover, title, message, priority, link)
				},
			})
		} else {
			d.logger.Debugf(providers.TypeApp, "Skipping pushover for %s (priority %s below %s)", activityID, priority, cfg.Pushover.MinPriority)
		}
	}

	for _, webhook := range cfg.Webhooks {
		if !webhook.Enabled {
			continue
		}
		if !priority.Meets(webhook.MinPriority) {
			d.logger.Debugf(providers.TypeApp, "Skipping %s for %s (priority %s below %s)", webhook.Name, activityID, priority, webhook.MinPriority)
			continue
		}

		webhook := webhook
		switch webhook.Format {
		case "discord":
			targets = append(targets, target{name: webhook.Name, send: func(ctx context.Context) error {
				return d.sendDiscord(ctx, webhook, title, message, priority, link)
			}})
		case "slack":
			targets = append(targets, target{name: webhook.Name, send: func(ctx context.Context) error {
				return d.sendSlack(ctx, webhook, title, message, priority, link)
			}})
		case "generic":
			targets = append(targets, target{name: webhook.Name, send: func(ctx context.Context) error {
				return d.sendGeneric(ctx, webhook, title, message, priority, activityID, link)
			}})
		default:
			d.logger.Warnf(providers.TypeApp, "Unknown webhook format %q for %s", webhook.Format, webhook.Name)
		}
	}

	if len(targets) == 0 {
		d.logger.Debugf(providers.TypeApp, "No eligible providers for %s", activityID)
		return nil
	}

	var wg sync.WaitGroup
	for _, t := range targets {
		wg.Add(1)
		go func(t target) {
			defer wg.Done()
			if err := t.send(ctx); err != nil {
				d.logger.Errorf(providers.TypeApp, "Provider %s delivery failed for %s: %s", t.name, activityID, err)
				d.metrics.IncNotificationsSent(t.name, false)
				return
			}
			d.metrics.IncNotificationsSent(t.name, true)
		}(t)
	}
	wg.Wait()

	return nil
}
