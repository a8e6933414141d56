// Package rules classifies activities against declarative rule sets.
package rules

import (
	"math"
	"strings"

	"kudosd/internal/models"
	"kudosd/internal/units"
)

// equalityTolerance absorbs floating-point drift in '=' comparisons.
const equalityTolerance = 0.01

// Evaluate classifies one activity against the given rule set. All matching
// rules are collected; the resolved priority is the highest tier among them.
// Re-evaluating identical inputs yields an identical result.
func Evaluate(activity *models.Activity, ruleSet []models.Rule, vips []models.VIPAthlete) *models.Evaluation {
	isVIP := false
	for _, vip := range vips {
		if vip.Matches(activity.AthleteID, activity.AthleteName) {
			isVIP = true
			break
		}
	}

	matched := make([]models.Rule, 0)
	priority := models.PriorityNone
	for _, rule := range ruleSet {
		if !matchesRule(activity, rule, isVIP) {
			continue
		}
		matched = append(matched, rule)
		if rule.Priority.Rank() > priority.Rank() {
			priority = rule.Priority
		}
	}

	return &models.Evaluation{
		IsSignificant: len(matched) > 0,
		MatchedRules:  matched,
		Priority:      priority,
		IsVIP:         isVIP,
	}
}

func matchesRule(activity *models.Activity, rule models.Rule, isVIP bool) bool {
	switch rule.Kind() {
	case models.KindHasPRBadge:
		return activity.HasPR
	case models.KindVIPOnly:
		return isVIP
	}

	if rule.Type != models.RuleTypeAny && !matchesType(activity.ActivityType, rule.Type) {
		return false
	}
	if rule.Kind() == models.KindTypeOnly {
		return true
	}
	return evaluateCondition(activity, rule)
}

// matchesType applies the type filter. A 'ride' rule matches both Ride and
// VirtualRide; a 'virtualride' rule matches VirtualRide only; every other
// type requires lowercase containment.
func matchesType(activityType, ruleType string) bool {
	at := strings.ToLower(activityType)
	rt := strings.ToLower(ruleType)

	if rt == "virtualride" {
		return at == "virtualride"
	}
	return strings.Contains(at, rt)
}

// evaluateCondition resolves the activity metric named by the rule's
// condition, normalized into the rule's declared unit. A metric absent on
// the activity makes the rule non-matching, never an error.
func evaluateCondition(activity *models.Activity, rule models.Rule) bool {
	var value float64

	switch rule.Condition {
	case models.ConditionDistance:
		if activity.Distance == nil {
			return false
		}
		miles := units.ToMiles(activity.Distance.Value, activity.Distance.Unit)
		value = units.DistanceIn(miles, rule.Unit)
	case models.ConditionElevation:
		if activity.Elevation == nil {
			return false
		}
		feet := units.ToFeet(activity.Elevation.Value, activity.Elevation.Unit)
		value = units.ElevationIn(feet, rule.Unit)
	case models.ConditionSpeed:
		if activity.Speed == nil {
			return false
		}
		value = units.SpeedIn(activity.Speed.Value, rule.Unit)
	case models.ConditionPace:
		if activity.Pace == nil {
			return false
		}
		value = units.PaceIn(activity.Pace.Value, rule.Unit)
	case models.ConditionMovingTime:
		if activity.MovingTime == 0 {
			return false
		}
		value = activity.MovingTime / 60
	case models.ConditionComments:
		value = float64(activity.CommentCount)
	default:
		return false
	}

	return compare(value, rule.Operator, rule.Value)
}

func compare(activityValue float64, op models.Operator, ruleValue float64) bool {
	switch op {
	case models.OpGreater:
		return activityValue > ruleValue
	case models.OpGreaterEqual:
		return activityValue >= ruleValue
	case models.OpLess:
		return activityValue < ruleValue
	case models.OpLessEqual:
		return activityValue <= ruleValue
	case models.OpEqual:
		return math.Abs(activityValue-ruleValue) < equalityTolerance
	default:
		return false
	}
}
