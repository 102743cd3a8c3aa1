// Package analytics computes on-demand metric snapshots over complaint
// collections. Nothing here is persisted; every snapshot is a pure fold
// over the repository's deep-copied records.
package analytics

import (
	"context"
	"sort"

	"triage_server/core/domain"
	"triage_server/core/port/in"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"
)

// severityDisplayOrder fixes the row order of the severity resolution table.
var severityDisplayOrder = []domain.Severity{
	domain.SeverityCritical,
	domain.SeverityHigh,
	domain.SeverityMedium,
	domain.SeverityLow,
}

// Service implements in.AnalyticsUseCase over the complaint repository.
type Service struct {
	repo    out.ComplaintRepository
	domains in.DomainUseCase
}

// NewService creates the analytics service.
func NewService(repo out.ComplaintRepository, domains in.DomainUseCase) *Service {
	return &Service{repo: repo, domains: domains}
}

// Snapshot computes the analytics view for the active domain over the given
// window. A zero window covers all records.
func (s *Service) Snapshot(ctx context.Context, window domain.TimeRange) (*domain.AnalyticsSnapshot, error) {
	active := s.domains.Active()
	if active == nil {
		return nil, apperr.BadRequest("no active domain selected")
	}

	complaints, err := s.repo.Snapshot(ctx, active.ID)
	if err != nil {
		return nil, err
	}

	return Aggregate(complaints, window), nil
}

// Aggregate folds the complaint collection into a snapshot. The input slice
// is read only; records outside the window are skipped. Aggregate never
// fails: an empty collection yields a zeroed snapshot.
func Aggregate(complaints []*domain.Complaint, window domain.TimeRange) *domain.AnalyticsSnapshot {
	snapshot := &domain.AnalyticsSnapshot{Window: window}

	months := map[string]*domain.TimeBucket{}
	categories := map[string]int{}
	userTypes := map[domain.UserType]int{}

	departments := map[string]*deptAccum{}
	severities := map[domain.Severity]*sevAccum{}

	for _, c := range complaints {
		if c == nil || !window.Contains(c.SubmittedAt) {
			continue
		}

		snapshot.Total++
		userTypes[c.UserType]++

		month := c.SubmittedAt.Format("2006-01")
		bucket, ok := months[month]
		if !ok {
			bucket = &domain.TimeBucket{Month: month}
			months[month] = bucket
		}
		bucket.Submitted++

		if c.IsClassified() {
			snapshot.Classified++
			categories[c.Analysis.TopCategory()]++
			if c.Analysis.Severity == domain.SeverityCritical {
				snapshot.Critical++
			}
		}

		if c.Status != domain.StatusResolved || c.ResolvedAt == nil {
			continue
		}

		snapshot.Resolved++
		bucket.Resolved++
		hours := c.ResolvedAt.Sub(c.SubmittedAt).Hours()

		if c.IsClassified() {
			dept := c.Analysis.Department
			if dept != "" {
				acc, ok := departments[dept]
				if !ok {
					acc = &deptAccum{}
					departments[dept] = acc
				}
				acc.resolved++
				acc.hours += hours
				acc.frustration += c.Analysis.Sentiment.Frustration
				acc.withSentiment++
			}

			sev, ok := severities[c.Analysis.Severity]
			if !ok {
				sev = &sevAccum{}
				severities[c.Analysis.Severity] = sev
			}
			sev.resolved++
			sev.hours += hours
		}
	}

	snapshot.OverTime = sortedBuckets(months)
	snapshot.CategoryDistribution = sortedCategories(categories)
	snapshot.DepartmentPerformance = departmentRows(departments)
	snapshot.SeverityResolution = severityRows(severities)
	snapshot.UserTypeDistribution = userTypeRows(userTypes, snapshot.Total)

	return snapshot
}

func sortedBuckets(months map[string]*domain.TimeBucket) []domain.TimeBucket {
	rows := make([]domain.TimeBucket, 0, len(months))
	for _, b := range months {
		rows = append(rows, *b)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}

// sortedCategories orders by descending count, category name as tie-break.
func sortedCategories(categories map[string]int) []domain.CategoryCount {
	rows := make([]domain.CategoryCount, 0, len(categories))
	for cat, n := range categories {
		rows = append(rows, domain.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

type deptAccum struct {
	resolved      int
	hours         float64
	frustration   float64
	withSentiment int
}

type sevAccum struct {
	resolved int
	hours    float64
}

func departmentRows(departments map[string]*deptAccum) []domain.DepartmentPerformance {
	rows := make([]domain.DepartmentPerformance, 0, len(departments))
	for dept, acc := range departments {
		row := domain.DepartmentPerformance{Department: dept, Resolved: acc.resolved}
		if acc.resolved > 0 {
			avg := acc.hours / float64(acc.resolved)
			row.AvgResolutionHours = &avg
		}
		if acc.withSentiment > 0 {
			satisfaction := deriveSatisfaction(acc.frustration / float64(acc.withSentiment))
			row.Satisfaction = &satisfaction
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Resolved != rows[j].Resolved {
			return rows[i].Resolved > rows[j].Resolved
		}
		return rows[i].Department < rows[j].Department
	})
	return rows
}

// deriveSatisfaction maps average reporter frustration (0-100) onto a 1-5
// satisfaction score: zero frustration is a 5, full frustration a 1.
func deriveSatisfaction(avgFrustration float64) float64 {
	score := 5 - domain.Clamp01to100(avgFrustration)/25
	if score < 1 {
		score = 1
	}
	return score
}

// severityRows emits one row per severity in display order, including
// severities with no resolved complaints (nil average, never zero).
func severityRows(severities map[domain.Severity]*sevAccum) []domain.SeverityResolution {
	rows := make([]domain.SeverityResolution, 0, len(severityDisplayOrder))
	for _, severity := range severityDisplayOrder {
		row := domain.SeverityResolution{
			Severity:    severity,
			TargetHours: domain.TargetResolution(severity).Hours(),
		}
		if acc, ok := severities[severity]; ok && acc.resolved > 0 {
			avg := acc.hours / float64(acc.resolved)
			row.AvgHours = &avg
			row.OverTarget = avg > row.TargetHours
		}
		rows = append(rows, row)
	}
	return rows
}

func userTypeRows(userTypes map[domain.UserType]int, total int) []domain.UserTypeCount {
	rows := make([]domain.UserTypeCount, 0, len(userTypes))
	for ut, n := range userTypes {
		row := domain.UserTypeCount{UserType: ut, Count: n}
		if total > 0 {
			row.Percentage = float64(n) / float64(total) * 100
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].UserType < rows[j].UserType
	})
	return rows
}
