// Package routing turns a classification result into a department-bound
// action plan.
package routing

import (
	"fmt"
	"time"

	"triage_server/core/domain"
)

// Secondary action estimates. The primary estimate always comes from the
// severity resolution target.
const (
	mitigationEstimate   = 30 * time.Minute
	preventiveEstimate   = 4 * time.Hour
	notificationEstimate = 15 * time.Minute
)

// Planner generates recommended action plans. It is stateless; the plan is
// a pure function of the classification result.
type Planner struct{}

// NewPlanner creates an action planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// Build generates the action plan for a routed classification result.
//
// The plan always contains a primary resolution entry assigned to the routed
// department at the complaint's priority, with the severity resolution target
// as its estimate. Secondary entries are capped one priority level below the
// primary so the sorted plan keeps the resolution entry first, and the
// returned slice satisfies the plan ordering invariant. A result without a
// department (routing gap) yields no plan; the plan is generated once the
// complaint is routed manually.
func (p *Planner) Build(result *domain.ClassificationResult) []domain.ActionPlanEntry {
	if result == nil || result.Department == "" {
		return nil
	}

	secondaryCap := belowPrimary(result.Priority)

	plan := []domain.ActionPlanEntry{
		{
			Action:        primaryAction(result.TopCategory()),
			Priority:      result.Priority,
			EstimatedTime: domain.TargetResolution(result.Severity),
			Assignee:      result.Department,
		},
		{
			Action:        "Acknowledge the complaint and inform the reporter of the expected timeline",
			Priority:      capPriority(domain.PriorityMedium, secondaryCap),
			EstimatedTime: mitigationEstimate,
			Assignee:      result.Department,
		},
	}

	if result.Severity.Rank() >= domain.SeverityHigh.Rank() {
		plan = append(plan, domain.ActionPlanEntry{
			Action:        "Apply an interim mitigation while the full fix is in progress",
			Priority:      capPriority(domain.PriorityHigh, secondaryCap),
			EstimatedTime: mitigationEstimate,
			Assignee:      result.Department,
		})
	}

	if len(result.RiskFactors) > 0 {
		plan = append(plan, domain.ActionPlanEntry{
			Action:        "Review identified risk factors and schedule preventive maintenance",
			Priority:      capPriority(domain.PriorityLow, secondaryCap),
			EstimatedTime: preventiveEstimate,
			Assignee:      result.Department,
		})
	}

	if result.Severity == domain.SeverityLow {
		plan = append(plan, domain.ActionPlanEntry{
			Action:        "Log the issue in the routine maintenance queue",
			Priority:      domain.PriorityLow,
			EstimatedTime: notificationEstimate,
			Assignee:      result.Department,
		})
	}

	domain.SortActionPlan(plan)
	return plan
}

// capPriority returns want unless it outranks limit, in which case limit.
func capPriority(want, limit domain.Priority) domain.Priority {
	if want.Rank() > limit.Rank() {
		return limit
	}
	return want
}

// belowPrimary returns the priority one step below the primary's, flooring
// at Low. Low-priority plans then order among equals by estimated time.
func belowPrimary(p domain.Priority) domain.Priority {
	switch p {
	case domain.PriorityCritical:
		return domain.PriorityHigh
	case domain.PriorityHigh:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func primaryAction(category string) string {
	if category == "" {
		return "Resolve the reported issue"
	}
	return fmt.Sprintf("Resolve the reported %s issue", category)
}
