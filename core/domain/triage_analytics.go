package domain

// TimeBucket is one month's submitted vs resolved counts.
type TimeBucket struct {
	Month     string `json:"month"` // "2024-08"
	Submitted int    `json:"submitted"`
	Resolved  int    `json:"resolved"`
}

// CategoryCount is one slice of the top-category distribution.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DepartmentPerformance holds per-department resolution metrics.
// AvgResolutionHours is nil when the department resolved nothing in the
// window; zero would be misleading.
type DepartmentPerformance struct {
	Department         string   `json:"department"`
	Resolved           int      `json:"resolved"`
	AvgResolutionHours *float64 `json:"avg_resolution_hours,omitempty"`
	// Satisfaction is a 1-5 score derived from reporter frustration
	// signals on resolved complaints.
	Satisfaction *float64 `json:"satisfaction,omitempty"`
}

// SeverityResolution compares observed resolution time against the target.
type SeverityResolution struct {
	Severity    Severity `json:"severity"`
	AvgHours    *float64 `json:"avg_hours,omitempty"`
	TargetHours float64  `json:"target_hours"`
	OverTarget  bool     `json:"over_target"`
}

// UserTypeCount is one slice of the reporter-type distribution.
type UserTypeCount struct {
	UserType   UserType `json:"user_type"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
}

// AnalyticsSnapshot is a derived view over a complaint collection.
// It is recomputed on demand and never persisted as a source of truth.
type AnalyticsSnapshot struct {
	Window TimeRange `json:"window"`

	Total      int `json:"total"`
	Classified int `json:"classified"`
	Resolved   int `json:"resolved"`
	Critical   int `json:"critical"`

	OverTime              []TimeBucket            `json:"over_time"`
	CategoryDistribution  []CategoryCount         `json:"category_distribution"`
	DepartmentPerformance []DepartmentPerformance `json:"department_performance"`
	SeverityResolution    []SeverityResolution    `json:"severity_resolution"`
	UserTypeDistribution  []UserTypeCount         `json:"user_type_distribution"`
}
