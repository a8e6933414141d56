package storage

import (
	"github.com/google/uuid"

	"kudosd/internal/models"
)

// Settings documents carry a schemaVersion; documents written before
// versioning existed count as version 1. Each migration step is total and
// idempotent, and the chain runs exactly once per load.
//
// v1 -> v2: the flat notifications.pushover config moves under
// notifications.providers.
// v2 -> v3: the separate discord/slack/genericWebhook provider objects fold
// into the unified providers.webhooks array.

type migrationStep struct {
	from  int
	apply func(doc map[string]any)
}

var settingsMigrations = []migrationStep{
	{from: 1, apply: migratePushoverUnderProviders},
	{from: 2, apply: migrateWebhooksToArray},
}

// MigrateSettings upgrades a raw settings document to the current schema
// version in place. It reports whether the document was modified; running it
// on an already-current document changes nothing.
func MigrateSettings(doc map[string]any) bool {
	version := docVersion(doc)
	if version >= models.SettingsVersion {
		return false
	}

	for _, step := range settingsMigrations {
		if version == step.from {
			step.apply(doc)
			version++
		}
	}
	doc["schemaVersion"] = models.SettingsVersion
	return true
}

func docVersion(doc map[string]any) int {
	switch v := doc["schemaVersion"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 1
	}
}

func migratePushoverUnderProviders(doc map[string]any) {
	notifications, ok := doc["notifications"].(map[string]any)
	if !ok {
		return
	}
	pushover, hasFlat := notifications["pushover"].(map[string]any)
	if _, hasProviders := notifications["providers"]; hasProviders || !hasFlat {
		return
	}

	notifications["providers"] = map[string]any{
		"pushover": map[string]any{
			"enabled":     boolOr(pushover["enabled"], false),
			"minPriority": stringOr(pushover["minPriority"], string(models.PriorityHigh)),
			"userKey":     stringOr(pushover["userKey"], ""),
			"appToken":    stringOr(pushover["appToken"], ""),
		},
		"webhooks": []any{},
	}
	delete(notifications, "pushover")
}

func migrateWebhooksToArray(doc map[string]any) {
	notifications, ok := doc["notifications"].(map[string]any)
	if !ok {
		return
	}
	providers, ok := notifications["providers"].(map[string]any)
	if !ok {
		return
	}

	webhooks, _ := providers["webhooks"].([]any)
	if webhooks == nil {
		webhooks = []any{}
	}

	if discord, ok := providers["discord"].(map[string]any); ok {
		if url := stringOr(discord["webhookUrl"], ""); url != "" {
			webhooks = append(webhooks, map[string]any{
				"id":          newWebhookID(),
				"name":        "Discord",
				"enabled":     boolOr(discord["enabled"], false),
				"url":         url,
				"minPriority": stringOr(discord["minPriority"], string(models.PriorityMedium)),
				"format":      "discord",
			})
		}
		delete(providers, "discord")
	}

	if slack, ok := providers["slack"].(map[string]any); ok {
		if url := stringOr(slack["webhookUrl"], ""); url != "" {
			webhooks = append(webhooks, map[string]any{
				"id":          newWebhookID(),
				"name":        "Slack",
				"enabled":     boolOr(slack["enabled"], false),
				"url":         url,
				"minPriority": stringOr(slack["minPriority"], string(models.PriorityMedium)),
				"format":      "slack",
			})
		}
		delete(providers, "slack")
	}

	if generic, ok := providers["genericWebhook"].(map[string]any); ok {
		if url := stringOr(generic["url"], ""); url != "" {
			headers, _ := generic["headers"].(map[string]any)
			if headers == nil {
				headers = map[string]any{"Content-Type": "application/json"}
			}
			webhooks = append(webhooks, map[string]any{
				"id":          newWebhookID(),
				"name":        "Generic Webhook",
				"enabled":     boolOr(generic["enabled"], false),
				"url":         url,
				"minPriority": stringOr(generic["minPriority"], string(models.PriorityLow)),
				"format":      "generic",
				"method":      stringOr(generic["method"], "POST"),
				"headers":     headers,
			})
		}
		delete(providers, "genericWebhook")
	}

	providers["webhooks"] = webhooks
}

// newWebhookID generates an id unique for the process lifetime.
func newWebhookID() string {
	return "webhook_" + uuid.NewString()
}

func boolOr(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
