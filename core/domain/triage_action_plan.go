package domain

import (
	"sort"
	"time"
)

// ActionPlanEntry is one recommended remediation step.
type ActionPlanEntry struct {
	Action        string        `json:"action"`
	Priority      Priority      `json:"priority"`
	EstimatedTime time.Duration `json:"estimated_time"`
	Assignee      string        `json:"assignee"`
}

// SortActionPlan orders entries by descending priority, ties broken by
// ascending estimated time. Sorting is stable so equal entries keep their
// generation order.
func SortActionPlan(entries []ActionPlanEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].Priority.Rank(), entries[j].Priority.Rank()
		if pi != pj {
			return pi > pj
		}
		return entries[i].EstimatedTime < entries[j].EstimatedTime
	})
}

// ActionPlanSorted reports whether entries satisfy the ordering invariant.
func ActionPlanSorted(entries []ActionPlanEntry) bool {
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if prev.Priority.Rank() < cur.Priority.Rank() {
			return false
		}
		if prev.Priority.Rank() == cur.Priority.Rank() && prev.EstimatedTime > cur.EstimatedTime {
			return false
		}
	}
	return true
}
