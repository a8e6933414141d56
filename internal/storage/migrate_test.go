package storage

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kudosd/internal/models"
)

func legacyV1Doc() map[string]any {
	return map[string]any{
		"enabled":    true,
		"rulePreset": "impressive-efforts",
		"notifications": map[string]any{
			"enabled": true,
			"pushover": map[string]any{
				"enabled":     true,
				"userKey":     "uk",
				"appToken":    "at",
				"minPriority": "high",
			},
		},
	}
}

func v2Doc() map[string]any {
	return map[string]any{
		"schemaVersion": float64(2),
		"notifications": map[string]any{
			"enabled": true,
			"providers": map[string]any{
				"pushover": map[string]any{"enabled": false},
				"discord": map[string]any{
					"enabled":    true,
					"webhookUrl": "https://discord.example/hook",
				},
				"slack": map[string]any{
					"enabled":    false,
					"webhookUrl": "https://slack.example/hook",
				},
				"genericWebhook": map[string]any{
					"enabled": true,
					"url":     "https://generic.example/hook",
					"method":  "PUT",
				},
			},
		},
	}
}

func TestMigrateSettings_V1ToCurrent(t *testing.T) {
	doc := legacyV1Doc()

	changed := MigrateSettings(doc)
	require.True(t, changed)
	assert.Equal(t, models.SettingsVersion, doc["schemaVersion"])

	notifications := doc["notifications"].(map[string]any)
	_, hasFlat := notifications["pushover"]
	assert.False(t, hasFlat)

	providers := notifications["providers"].(map[string]any)
	pushover := providers["pushover"].(map[string]any)
	assert.Equal(t, true, pushover["enabled"])
	assert.Equal(t, "uk", pushover["userKey"])
	assert.Equal(t, "high", pushover["minPriority"])

	webhooks := providers["webhooks"].([]any)
	assert.Empty(t, webhooks)
}

func TestMigrateSettings_V2FoldsProvidersIntoWebhooks(t *testing.T) {
	doc := v2Doc()

	require.True(t, MigrateSettings(doc))

	providers := doc["notifications"].(map[string]any)["providers"].(map[string]any)
	for _, gone := range []string{"discord", "slack", "genericWebhook"} {
		_, still := providers[gone]
		assert.False(t, still, gone)
	}

	webhooks := providers["webhooks"].([]any)
	require.Len(t, webhooks, 3)

	discord := webhooks[0].(map[string]any)
	assert.Equal(t, "Discord", discord["name"])
	assert.Equal(t, "discord", discord["format"])
	assert.Equal(t, true, discord["enabled"])
	assert.Equal(t, "medium", discord["minPriority"])
	assert.Contains(t, discord["id"], "webhook_")

	slack := webhooks[1].(map[string]any)
	assert.Equal(t, "slack", slack["format"])
	assert.Equal(t, false, slack["enabled"])

	generic := webhooks[2].(map[string]any)
	assert.Equal(t, "generic", generic["format"])
	assert.Equal(t, "PUT", generic["method"])
	assert.Equal(t, "low", generic["minPriority"])
	headers := generic["headers"].(map[string]any)
	assert.Equal(t, "application/json", headers["Content-Type"])
}

func TestMigrateSettings_ProviderWithoutURLIsDropped(t *testing.T) {
	doc := map[string]any{
		"schemaVersion": float64(2),
		"notifications": map[string]any{
			"providers": map[string]any{
				"discord": map[string]any{"enabled": true, "webhookUrl": ""},
			},
		},
	}

	require.True(t, MigrateSettings(doc))

	providers := doc["notifications"].(map[string]any)["providers"].(map[string]any)
	_, still := providers["discord"]
	assert.False(t, still)
	assert.Empty(t, providers["webhooks"].([]any))
}

func TestMigrateSettings_CurrentDocUnchanged(t *testing.T) {
	doc := map[string]any{
		"schemaVersion": float64(models.SettingsVersion),
		"enabled":       true,
	}

	assert.False(t, MigrateSettings(doc))
}

func TestMigrateSettings_Idempotent(t *testing.T) {
	doc := legacyV1Doc()
	require.True(t, MigrateSettings(doc))

	first, err := json.Marshal(doc)
	require.NoError(t, err)

	assert.False(t, MigrateSettings(doc))
	second, err := json.Marshal(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMigrateSettings_MissingVersionCountsAsV1(t *testing.T) {
	doc := map[string]any{"enabled": false}

	require.True(t, MigrateSettings(doc))
	assert.Equal(t, models.SettingsVersion, doc["schemaVersion"])
}

func TestMigrateSettings_RoundtripThroughJSON(t *testing.T) {
	// Documents arrive from disk as JSON, so the version is a float64.
	raw, err := json.Marshal(map[string]any{"schemaVersion": 2, "notifications": map[string]any{"providers": map[string]any{}}})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	require.True(t, MigrateSettings(doc))
	assert.Equal(t, models.SettingsVersion, doc["schemaVersion"])
}
