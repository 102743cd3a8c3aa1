package analytics

import (
	"testing"
	"time"

	"triage_server/core/domain"
)

func classified(id int64, submitted time.Time, category, department string, severity domain.Severity, frustration float64) *domain.Complaint {
	return &domain.Complaint{
		ID:          id,
		Title:       "t",
		Description: "d",
		SubmittedBy: "reporter",
		UserType:    "Student",
		DomainID:    domain.DomainCollege,
		Status:      domain.StatusPending,
		SubmittedAt: submitted,
		Analysis: &domain.ClassificationResult{
			Categories: []domain.CategoryScore{{Label: category, Probability: 80}},
			Severity:   severity,
			Priority:   domain.Priority(severity),
			Department: department,
			Sentiment:  domain.Sentiment{Frustration: frustration},
		},
	}
}

func resolved(c *domain.Complaint, after time.Duration) *domain.Complaint {
	at := c.SubmittedAt.Add(after)
	c.Status = domain.StatusResolved
	c.ResolvedAt = &at
	return c
}

func TestAggregateEmpty(t *testing.T) {
	snapshot := Aggregate(nil, domain.TimeRange{})

	if snapshot.Total != 0 || snapshot.Classified != 0 || snapshot.Resolved != 0 || snapshot.Critical != 0 {
		t.Errorf("counters not zeroed: %+v", snapshot)
	}
	if len(snapshot.OverTime) != 0 || len(snapshot.CategoryDistribution) != 0 ||
		len(snapshot.DepartmentPerformance) != 0 || len(snapshot.UserTypeDistribution) != 0 {
		t.Errorf("distributions not empty: %+v", snapshot)
	}
	for _, row := range snapshot.SeverityResolution {
		if row.AvgHours != nil {
			t.Errorf("severity %v has average with no data", row.Severity)
		}
		if row.OverTarget {
			t.Errorf("severity %v flagged over target with no data", row.Severity)
		}
	}
}

func TestAggregateCounters(t *testing.T) {
	base := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	complaints := []*domain.Complaint{
		resolved(classified(1, base, "Infrastructure/Facilities", "Maintenance & Facilities", domain.SeverityHigh, 40), 10*time.Hour),
		resolved(classified(2, base.Add(24*time.Hour), "Infrastructure/Facilities", "Maintenance & Facilities", domain.SeverityHigh, 60), 20*time.Hour),
		classified(3, base.Add(48*time.Hour), "Safety & Security", "Security Office", domain.SeverityCritical, 90),
		{
			ID: 4, Title: "t", Description: "d", UserType: "Parent/Guardian",
			DomainID: domain.DomainCollege, Status: domain.StatusAnalyzing,
			SubmittedAt: base.Add(72 * time.Hour),
		},
	}

	snapshot := Aggregate(complaints, domain.TimeRange{})

	if snapshot.Total != 4 {
		t.Errorf("total = %d, want 4", snapshot.Total)
	}
	if snapshot.Classified != 3 {
		t.Errorf("classified = %d, want 3", snapshot.Classified)
	}
	if snapshot.Resolved != 2 {
		t.Errorf("resolved = %d, want 2", snapshot.Resolved)
	}
	if snapshot.Critical != 1 {
		t.Errorf("critical = %d, want 1", snapshot.Critical)
	}

	sum := 0
	for _, cc := range snapshot.CategoryDistribution {
		sum += cc.Count
	}
	if sum != snapshot.Classified {
		t.Errorf("category distribution sums to %d, want classified count %d", sum, snapshot.Classified)
	}

	var pct float64
	for _, ut := range snapshot.UserTypeDistribution {
		pct += ut.Percentage
	}
	if pct < 99.9 || pct > 100.1 {
		t.Errorf("user type percentages sum to %v, want 100", pct)
	}
}

func TestAggregateDepartmentPerformance(t *testing.T) {
	base := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	complaints := []*domain.Complaint{
		resolved(classified(1, base, "Infrastructure/Facilities", "Maintenance & Facilities", domain.SeverityHigh, 50), 10*time.Hour),
		resolved(classified(2, base, "Infrastructure/Facilities", "Maintenance & Facilities", domain.SeverityHigh, 50), 14*time.Hour),
		// Pending complaint: department must not appear with a zero average.
		classified(3, base, "Safety & Security", "Security Office", domain.SeverityHigh, 80),
	}

	snapshot := Aggregate(complaints, domain.TimeRange{})

	if len(snapshot.DepartmentPerformance) != 1 {
		t.Fatalf("departments = %d, want only the one with resolutions", len(snapshot.DepartmentPerformance))
	}
	row := snapshot.DepartmentPerformance[0]
	if row.Department != "Maintenance & Facilities" {
		t.Errorf("department = %q", row.Department)
	}
	if row.AvgResolutionHours == nil || *row.AvgResolutionHours != 12 {
		t.Errorf("avg resolution = %v, want 12h", row.AvgResolutionHours)
	}
	if row.Satisfaction == nil {
		t.Fatal("satisfaction missing")
	}
	if *row.Satisfaction < 1 || *row.Satisfaction > 5 {
		t.Errorf("satisfaction = %v, want within [1, 5]", *row.Satisfaction)
	}
}

func TestAggregateSeverityTargets(t *testing.T) {
	base := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	complaints := []*domain.Complaint{
		// High target is 12h; resolved in 30h → over target.
		resolved(classified(1, base, "Infrastructure/Facilities", "Maintenance & Facilities", domain.SeverityHigh, 50), 30*time.Hour),
		// Medium target is 48h; resolved in 5h → within target.
		resolved(classified(2, base, "Food Services/Canteen", "Food Services", domain.SeverityMedium, 50), 5*time.Hour),
	}

	snapshot := Aggregate(complaints, domain.TimeRange{})

	rows := map[domain.Severity]domain.SeverityResolution{}
	for _, row := range snapshot.SeverityResolution {
		rows[row.Severity] = row
	}

	high := rows[domain.SeverityHigh]
	if high.AvgHours == nil || *high.AvgHours != 30 {
		t.Errorf("high avg = %v, want 30", high.AvgHours)
	}
	if !high.OverTarget {
		t.Error("high severity 30h not flagged over its 12h target")
	}

	medium := rows[domain.SeverityMedium]
	if medium.OverTarget {
		t.Error("medium severity 5h flagged over its 48h target")
	}

	low := rows[domain.SeverityLow]
	if low.AvgHours != nil {
		t.Error("low severity has average with no resolved complaints")
	}
}

func TestAggregateWindowFiltering(t *testing.T) {
	january := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	february := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	complaints := []*domain.Complaint{
		classified(1, january, "Infrastructure/Facilities", "Maintenance & Facilities", domain.SeverityLow, 20),
		classified(2, february, "Infrastructure/Facilities", "Maintenance & Facilities", domain.SeverityLow, 20),
	}

	window := domain.TimeRange{
		From: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	snapshot := Aggregate(complaints, window)

	if snapshot.Total != 1 {
		t.Errorf("total = %d, want 1 inside the window", snapshot.Total)
	}
	if len(snapshot.OverTime) != 1 || snapshot.OverTime[0].Month != "2025-02" {
		t.Errorf("over-time buckets = %+v, want only 2025-02", snapshot.OverTime)
	}
}
