package models

// Condition names the activity metric a conditional rule compares against.
type Condition string

const (
	ConditionDistance   Condition = "distance"
	ConditionElevation  Condition = "elevation"
	ConditionSpeed      Condition = "speed"
	ConditionPace       Condition = "pace"
	ConditionMovingTime Condition = "moving-time"
	ConditionComments   Condition = "comments"
)

// Operator is a numeric comparison. Equality uses an absolute tolerance to
// absorb floating-point drift.
type Operator string

const (
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
)

// Sentinel rule types that bypass activity-type matching.
const (
	RuleTypeAny     = "any"
	RuleTypeHasPR   = "has-pr-badge"
	RuleTypeVIPOnly = "vip-only"
)

// RuleKind partitions rules into their structural variants so the engine
// dispatches on shape instead of sniffing optional fields.
type RuleKind int

const (
	KindTypeOnly RuleKind = iota
	KindConditional
	KindHasPRBadge
	KindVIPOnly
)

// Rule is one declarative predicate over an activity. Rules are immutable
// once stored; an edit replaces the rule at its index.
type Rule struct {
	Type        string    `json:"type"`
	Condition   Condition `json:"condition,omitempty"`
	Operator    Operator  `json:"operator,omitempty"`
	Value       float64   `json:"value,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	Priority    Priority  `json:"priority"`
	Description string    `json:"description,omitempty"`
}

func (r Rule) Kind() RuleKind {
	switch r.Type {
	case RuleTypeHasPR:
		return KindHasPRBadge
	case RuleTypeVIPOnly:
		return KindVIPOnly
	}
	if r.Condition == "" {
		return KindTypeOnly
	}
	return KindConditional
}
