package domain

import "time"

// Severity represents the assessed impact level of a complaint.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Priority represents the handling priority of a complaint or action.
// Shares the vocabulary of Severity but is derived independently.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// severityOrder maps severities to ranks, higher = more severe.
var severityOrder = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// priorityOrder maps priorities to ranks, higher = more urgent.
var priorityOrder = map[Priority]int{
	PriorityLow:      0,
	PriorityMedium:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

// Rank returns the numeric rank of a severity (higher = more severe).
// Unknown severities rank below Low.
func (s Severity) Rank() int {
	if r, ok := severityOrder[s]; ok {
		return r
	}
	return -1
}

// Escalate returns the severity one level up, capped at Critical.
func (s Severity) Escalate() Severity {
	switch s {
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	case SeverityHigh, SeverityCritical:
		return SeverityCritical
	default:
		return s
	}
}

// Rank returns the numeric rank of a priority (higher = more urgent).
func (p Priority) Rank() int {
	if r, ok := priorityOrder[p]; ok {
		return r
	}
	return -1
}

// Escalate returns the priority one level up, capped at Critical.
func (p Priority) Escalate() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	case PriorityHigh, PriorityCritical:
		return PriorityCritical
	default:
		return p
	}
}

// SeverityTargets holds the target resolution time per severity level.
// These targets also bound the primary action estimate in action plans.
var SeverityTargets = map[Severity]time.Duration{
	SeverityCritical: 4 * time.Hour,
	SeverityHigh:     12 * time.Hour,
	SeverityMedium:   48 * time.Hour,
	SeverityLow:      96 * time.Hour,
}

// TargetResolution returns the target resolution duration for a severity.
func TargetResolution(s Severity) time.Duration {
	if d, ok := SeverityTargets[s]; ok {
		return d
	}
	return SeverityTargets[SeverityLow]
}

// TimeRange is a half-open window [From, To).
// A zero From or To leaves that side unbounded.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To) {
		return false
	}
	return true
}

// Clamp01to100 clamps a score to the [0, 100] range.
// NaN maps to 0.
func Clamp01to100(v float64) float64 {
	if v != v { // NaN
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
