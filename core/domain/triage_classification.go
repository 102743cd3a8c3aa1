package domain

// CategoryScore is one (label, probability) pair from classification.
// Probability is a percentage in [0, 100]; scores are multi-label and do
// not need to sum to 100.
type CategoryScore struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Sentiment holds text-signal scores, each in [0, 100].
type Sentiment struct {
	Urgency     float64 `json:"urgency"`
	Frustration float64 `json:"frustration"`
	Clarity     float64 `json:"clarity"`
}

// Impact estimates who and what the complaint affects.
type Impact struct {
	// UsersAffected is a count or estimate ("~60 students daily").
	UsersAffected string `json:"users_affected"`
	// UnitsImpacted counts affected locations/units (halls, wards, streets).
	UnitsImpacted int `json:"units_impacted"`
	// UrgencyScore is in [0, 100].
	UrgencyScore float64 `json:"urgency_score"`
}

// ClassificationResult is the analysis attached to a complaint.
//
// Invariants: Categories is ordered by descending probability with domain
// declaration order as tie-break; Categories[0].Label routes to Department
// via the domain's routing table unless RoutingGap is set; Confidence equals
// the clamped top probability.
type ClassificationResult struct {
	Categories []CategoryScore `json:"categories"`

	Severity Severity `json:"severity"`
	Priority Priority `json:"priority"`

	// Confidence in the top classification, [0, 100].
	Confidence float64 `json:"confidence"`

	// Department is the routed target; empty when RoutingGap is set.
	Department string `json:"department,omitempty"`

	// RoutingGap is set when the top category has no department mapping.
	RoutingGap bool `json:"routing_gap,omitempty"`

	Sentiment   Sentiment `json:"sentiment"`
	RiskFactors []string  `json:"risk_factors,omitempty"`
	KeyInsights []string  `json:"key_insights,omitempty"`
	Impact      Impact    `json:"impact"`

	// EstimatedResolution is the human-facing estimate derived from the
	// severity target ("within 12 hours").
	EstimatedResolution string `json:"estimated_resolution"`

	// SimilarCases counts recent complaints sharing the top category.
	// Filled by the intake service, not by the engine.
	SimilarCases int `json:"similar_cases"`

	// ModelUsed names the scoring model that produced the category scores.
	ModelUsed string `json:"model_used"`
}

// TopCategory returns the winning category label, or "" when unclassified.
func (r *ClassificationResult) TopCategory() string {
	if len(r.Categories) == 0 {
		return ""
	}
	return r.Categories[0].Label
}

// Clone returns a deep copy.
func (r *ClassificationResult) Clone() *ClassificationResult {
	if r == nil {
		return nil
	}
	cp := *r
	if r.Categories != nil {
		cp.Categories = make([]CategoryScore, len(r.Categories))
		copy(cp.Categories, r.Categories)
	}
	if r.RiskFactors != nil {
		cp.RiskFactors = append([]string(nil), r.RiskFactors...)
	}
	if r.KeyInsights != nil {
		cp.KeyInsights = append([]string(nil), r.KeyInsights...)
	}
	return &cp
}
