package models

type Priority string

const (
	PriorityNone     Priority = "none"
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank maps a priority tier onto the total order critical > high > medium > low.
// Unknown tiers (and "none") rank below every real tier.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Meets reports whether p is at or above the given minimum tier.
func (p Priority) Meets(min Priority) bool {
	return p.Rank() >= min.Rank()
}

// Color returns the display color used by the UI surfaces for a tier.
func (p Priority) Color() string {
	switch p {
	case PriorityCritical:
		return "#fc4c02"
	case PriorityHigh:
		return "#ff6b35"
	case PriorityMedium:
		return "#f7931e"
	case PriorityLow:
		return "#4a90e2"
	default:
		return "#999999"
	}
}
