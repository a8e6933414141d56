package rules

import "kudosd/internal/models"

// Preset is a named, built-in, fixed bundle of rules.
type Preset struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Rules       []models.Rule `json:"rules"`
}

const (
	PresetPRsOnly           = "prs-only"
	PresetImpressiveEfforts = "impressive-efforts"
	PresetEpicAdventures    = "epic-adventures"
	PresetEverything        = "everything"
)

var presets = map[string]Preset{
	PresetPRsOnly: {
		Name:        "Don't Miss PRs",
		Description: "Only notify on personal records",
		Rules: []models.Rule{
			{Type: models.RuleTypeHasPR, Priority: models.PriorityHigh},
		},
	},
	PresetImpressiveEfforts: {
		Name:        "Impressive Efforts",
		Description: "Long distances or fast paces",
		Rules: []models.Rule{
			{Type: "ride", Condition: models.ConditionDistance, Operator: models.OpGreater, Value: 50, Unit: "miles", Priority: models.PriorityHigh},
			{Type: "ride", Condition: models.ConditionSpeed, Operator: models.OpGreater, Value: 20, Unit: "mph", Priority: models.PriorityHigh},
			{Type: "run", Condition: models.ConditionDistance, Operator: models.OpGreater, Value: 13.1, Unit: "miles", Priority: models.PriorityHigh},
			{Type: "run", Condition: models.ConditionPace, Operator: models.OpLess, Value: 7, Unit: "min/mile", Priority: models.PriorityMedium},
			{Type: models.RuleTypeAny, Condition: models.ConditionElevation, Operator: models.OpGreater, Value: 5000, Unit: "feet", Priority: models.PriorityMedium},
		},
	},
	PresetEpicAdventures: {
		Name:        "Epic Adventures",
		Description: "Extreme distances and elevation",
		Rules: []models.Rule{
			{Type: "ride", Condition: models.ConditionDistance, Operator: models.OpGreater, Value: 100, Unit: "miles", Priority: models.PriorityCritical},
			{Type: "run", Condition: models.ConditionDistance, Operator: models.OpGreater, Value: 26.2, Unit: "miles", Priority: models.PriorityCritical},
			{Type: models.RuleTypeAny, Condition: models.ConditionElevation, Operator: models.OpGreater, Value: 10000, Unit: "feet", Priority: models.PriorityCritical},
		},
	},
	PresetEverything: {
		Name:        "Everything",
		Description: "All activities from followed athletes",
		Rules: []models.Rule{
			{Type: models.RuleTypeAny, Priority: models.PriorityLow},
		},
	},
}

// GetPreset looks up a built-in preset by key.
func GetPreset(key string) (Preset, bool) {
	p, ok := presets[key]
	return p, ok
}

// Resolve builds the active rule list: preset rules, then custom rules, then
// a synthetic vip-only rule when the VIP list is non-empty. An unknown preset
// yields an empty list so nothing matches and nothing fires.
func Resolve(preset string, custom []models.Rule, vips []models.VIPAthlete) []models.Rule {
	p, ok := presets[preset]
	if !ok {
		return []models.Rule{}
	}

	active := make([]models.Rule, 0, len(p.Rules)+len(custom)+1)
	active = append(active, p.Rules...)
	active = append(active, custom...)

	if len(vips) > 0 {
		active = append(active, models.Rule{
			Type:        models.RuleTypeVIPOnly,
			Priority:    models.PriorityHigh,
			Description: "VIP Athletes",
		})
	}
	return active
}
