package domain

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusSubmitted   Status = "Submitted"
	StatusAnalyzing   Status = "Analyzing"
	StatusPending     Status = "Pending"
	StatusInProgress  Status = "In Progress"
	StatusUnderReview Status = "Under Review"
	StatusResolved    Status = "Resolved"
)

// validTransitions encodes the complaint state machine:
//
//	Submitted → Analyzing → {Pending, InProgress, UnderReview} → Resolved
//
// Transitions are monotonic; there is no reverse edge.
var validTransitions = map[Status][]Status{
	StatusSubmitted:   {StatusAnalyzing},
	StatusAnalyzing:   {StatusPending, StatusInProgress, StatusUnderReview},
	StatusPending:     {StatusInProgress, StatusUnderReview, StatusResolved},
	StatusInProgress:  {StatusUnderReview, StatusResolved},
	StatusUnderReview: {StatusInProgress, StatusResolved},
	StatusResolved:    {},
}

// CanTransitionTo reports whether next is a legal successor state.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusAnalyzing, StatusPending,
		StatusInProgress, StatusUnderReview, StatusResolved:
		return true
	}
	return false
}

// Complaint is one submitted report together with its derived analysis.
type Complaint struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SubmittedBy string   `json:"submitted_by"`
	UserType    UserType `json:"user_type"`
	DomainID    DomainID `json:"domain_id"`
	Status      Status   `json:"status"`

	SubmittedAt time.Time  `json:"submitted_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`

	// Analysis is attached by the intake service once classification ran.
	Analysis *ClassificationResult `json:"analysis,omitempty"`

	// ActionPlan is attached after planning. A nil slice means "no plan
	// set yet"; Resolved requires the plan set to exist.
	ActionPlan []ActionPlanEntry `json:"action_plan,omitempty"`

	// NeedsManualRouting marks a routing gap: classified, but no department
	// mapping existed. Such complaints are surfaced, never dropped.
	NeedsManualRouting bool `json:"needs_manual_routing,omitempty"`
}

// Ref is the human-facing complaint reference.
func (c *Complaint) Ref() string {
	return fmt.Sprintf("C%d", c.ID)
}

// IsClassified reports whether an analysis has been attached.
func (c *Complaint) IsClassified() bool {
	return c.Analysis != nil
}

// HasActionPlan reports whether an action plan set exists.
func (c *Complaint) HasActionPlan() bool {
	return c.ActionPlan != nil
}

// Clone returns a deep copy. Repositories hand out clones so that
// aggregation always sees a consistent point-in-time view.
func (c *Complaint) Clone() *Complaint {
	if c == nil {
		return nil
	}
	cp := *c
	if c.ResolvedAt != nil {
		t := *c.ResolvedAt
		cp.ResolvedAt = &t
	}
	if c.Analysis != nil {
		cp.Analysis = c.Analysis.Clone()
	}
	if c.ActionPlan != nil {
		cp.ActionPlan = make([]ActionPlanEntry, len(c.ActionPlan))
		copy(cp.ActionPlan, c.ActionPlan)
	}
	return &cp
}
