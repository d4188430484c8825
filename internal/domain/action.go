package domain

import "time"

// Priority is the bucket an action item sorts into.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PriorityOrder is the canonical bucket ordering for rendering and counts.
var PriorityOrder = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// PriorityRank returns a sort priority (lower = more urgent).
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Label returns the display form of the priority, e.g. "High".
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// ActionItem is one bullet from an Actions section, parsed into structure.
// Text carries the bullet content with the priority tag stripped; the owner
// phrasing is left in place. An action with no recognizable tag defaults to
// PriorityMedium, and an unparseable due date leaves Due nil.
type ActionItem struct {
	Text     string
	Owner    string
	Priority Priority
	Due      *time.Time
}
