package domain

import (
	"testing"
	"time"
)

func TestSortActionPlan(t *testing.T) {
	plan := []ActionPlanEntry{
		{Action: "c", Priority: PriorityLow, EstimatedTime: time.Hour},
		{Action: "a", Priority: PriorityHigh, EstimatedTime: 12 * time.Hour},
		{Action: "b", Priority: PriorityHigh, EstimatedTime: 30 * time.Minute},
		{Action: "d", Priority: PriorityCritical, EstimatedTime: 4 * time.Hour},
	}

	SortActionPlan(plan)

	want := []string{"d", "b", "a", "c"}
	for i, action := range want {
		if plan[i].Action != action {
			t.Errorf("plan[%d] = %q, want %q", i, plan[i].Action, action)
		}
	}
	if !ActionPlanSorted(plan) {
		t.Error("sorted plan fails its own invariant check")
	}
}

func TestActionPlanSorted(t *testing.T) {
	bad := []ActionPlanEntry{
		{Priority: PriorityLow},
		{Priority: PriorityHigh},
	}
	if ActionPlanSorted(bad) {
		t.Error("ascending priorities reported sorted")
	}

	tieViolation := []ActionPlanEntry{
		{Priority: PriorityHigh, EstimatedTime: 2 * time.Hour},
		{Priority: PriorityHigh, EstimatedTime: time.Hour},
	}
	if ActionPlanSorted(tieViolation) {
		t.Error("descending time within equal priority reported sorted")
	}

	if !ActionPlanSorted(nil) {
		t.Error("empty plan reported unsorted")
	}
}

func TestSeverityTargets(t *testing.T) {
	tests := []struct {
		severity Severity
		want     time.Duration
	}{
		{SeverityCritical, 4 * time.Hour},
		{SeverityHigh, 12 * time.Hour},
		{SeverityMedium, 48 * time.Hour},
		{SeverityLow, 96 * time.Hour},
		{Severity("bogus"), 96 * time.Hour},
	}
	for _, tt := range tests {
		if got := TargetResolution(tt.severity); got != tt.want {
			t.Errorf("TargetResolution(%v) = %v, want %v", tt.severity, got, tt.want)
		}
	}
}

func TestEscalateCaps(t *testing.T) {
	if SeverityCritical.Escalate() != SeverityCritical {
		t.Error("Critical severity escalated past the cap")
	}
	if PriorityCritical.Escalate() != PriorityCritical {
		t.Error("Critical priority escalated past the cap")
	}
}
