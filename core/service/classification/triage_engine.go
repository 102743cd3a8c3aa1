// Package classification implements the complaint classification engine.
//
// The engine is a pure function of (complaint, domain config, scoring model):
// the model supplies category probabilities and auxiliary text signals, the
// engine derives severity, priority, department routing, confidence and the
// bounded insight lists. Given identical inputs and model state the output is
// identical, which keeps classification reproducible and auditable.
package classification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"
)

// maxInsights bounds the risk factor and key insight lists.
const maxInsights = 5

// Severity bands over the top category probability. The mapping is monotone:
// a higher top probability never yields a lower severity.
const (
	severityHighBand   = 85.0
	severityMediumBand = 60.0
)

// urgencyEscalationThreshold is the sentiment urgency at which priority is
// escalated one level above severity.
const urgencyEscalationThreshold = 80.0

// Engine classifies complaints against a domain configuration.
type Engine struct{}

// NewEngine creates a classification engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Classify runs the scoring model over the complaint text and derives the
// full classification result.
//
// The complaint must be in status Analyzing. On a routing gap the returned
// result is still non-nil (flagged via RoutingGap) alongside the ROUTING_GAP
// error, so callers can surface the record for manual department assignment
// instead of dropping it.
func (e *Engine) Classify(ctx context.Context, c *domain.Complaint, cfg *domain.DomainConfig, model out.ScoringModel) (*domain.ClassificationResult, error) {
	if c.Status != domain.StatusAnalyzing {
		return nil, apperr.InvalidStateTransition(string(c.Status), string(domain.StatusAnalyzing))
	}

	title := strings.TrimSpace(c.Title)
	description := strings.TrimSpace(c.Description)
	if title == "" {
		return nil, apperr.InvalidInput("title", "must not be empty")
	}
	if description == "" {
		return nil, apperr.InvalidInput("description", "must not be empty")
	}
	if c.DomainID != cfg.ID {
		return nil, apperr.ValidationFailed(
			fmt.Sprintf("complaint domain %q does not match configuration %q", c.DomainID, cfg.ID))
	}

	text := title + "\n\n" + description

	scored, err := model.Score(ctx, text, cfg.Categories)
	if err != nil {
		return nil, mapScoringError(ctx, err)
	}

	categories := sanitizeScores(scored.Scores, cfg)
	if len(categories) == 0 {
		return nil, apperr.Internal("scoring model returned no usable categories").
			WithDetail("model", scored.ModelName)
	}

	top := categories[0]

	escalated := cfg.IsEscalationCategory(top.Label) || containsEscalationKeyword(text, cfg)
	severity := DeriveSeverity(top.Probability, escalated)

	sentiment := domain.Sentiment{
		Urgency:     domain.Clamp01to100(scored.Auxiliary.Sentiment.Urgency),
		Frustration: domain.Clamp01to100(scored.Auxiliary.Sentiment.Frustration),
		Clarity:     domain.Clamp01to100(scored.Auxiliary.Sentiment.Clarity),
	}

	priority := DerivePriority(severity, sentiment.Urgency)

	result := &domain.ClassificationResult{
		Categories: categories,
		Severity:   severity,
		Priority:   priority,
		Confidence: domain.Clamp01to100(top.Probability),
		Sentiment:  sentiment,
		RiskFactors: truncate(scored.Auxiliary.RiskFactors, maxInsights),
		KeyInsights: truncate(scored.Auxiliary.KeyInsights, maxInsights),
		Impact: domain.Impact{
			UsersAffected: scored.Auxiliary.UsersAffected,
			UnitsImpacted: scored.Auxiliary.UnitsImpacted,
			UrgencyScore:  sentiment.Urgency,
		},
		EstimatedResolution: estimateResolution(severity),
		ModelUsed:           scored.ModelName,
	}

	department, ok := cfg.RouteCategory(top.Label)
	if !ok {
		result.RoutingGap = true
		return result, apperr.RoutingGap(string(cfg.ID), top.Label)
	}
	result.Department = department

	return result, nil
}

// DeriveSeverity maps the top category probability to a severity band and
// applies the one-level escalation for high-risk signals. Critical is only
// reachable through escalation.
func DeriveSeverity(topProbability float64, escalated bool) domain.Severity {
	p := domain.Clamp01to100(topProbability)

	var severity domain.Severity
	switch {
	case p >= severityHighBand:
		severity = domain.SeverityHigh
	case p >= severityMediumBand:
		severity = domain.SeverityMedium
	default:
		severity = domain.SeverityLow
	}

	if escalated {
		severity = severity.Escalate()
	}
	return severity
}

// DerivePriority crosses severity with sentiment urgency:
// Critical severity always yields Critical priority; otherwise priority
// starts at the severity level and is escalated once when urgency reaches
// the threshold. For fixed severity the mapping is monotone in urgency.
func DerivePriority(severity domain.Severity, urgency float64) domain.Priority {
	if severity == domain.SeverityCritical {
		return domain.PriorityCritical
	}

	priority := domain.Priority(severity)
	if domain.Clamp01to100(urgency) >= urgencyEscalationThreshold {
		priority = priority.Escalate()
	}
	return priority
}

// sanitizeScores filters model output down to the domain's category set,
// clamps probabilities and orders by descending probability with category
// declaration order as the tie-break.
func sanitizeScores(scores []out.ModelScore, cfg *domain.DomainConfig) []domain.CategoryScore {
	byLabel := make(map[string]float64, len(scores))
	for _, s := range scores {
		if !cfg.HasCategory(s.Label) {
			continue
		}
		p := domain.Clamp01to100(s.Probability)
		if existing, ok := byLabel[s.Label]; !ok || p > existing {
			byLabel[s.Label] = p
		}
	}

	// Seed in declaration order so the stable sort resolves probability
	// ties by the domain's declared category order.
	result := make([]domain.CategoryScore, 0, len(byLabel))
	for _, cat := range cfg.Categories {
		if p, ok := byLabel[cat]; ok {
			result = append(result, domain.CategoryScore{Label: cat, Probability: p})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Probability > result[j].Probability
	})

	return result
}

func containsEscalationKeyword(text string, cfg *domain.DomainConfig) bool {
	lower := strings.ToLower(text)
	for _, kw := range cfg.EscalationKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func truncate(items []string, limit int) []string {
	if len(items) <= limit {
		return items
	}
	return items[:limit]
}

func estimateResolution(severity domain.Severity) string {
	target := domain.TargetResolution(severity)
	return fmt.Sprintf("within %d hours", int(target.Hours()))
}

// mapScoringError normalizes model failures into the error taxonomy:
// a timed-out call is CLASSIFICATION_UNAVAILABLE, everything else from the
// backend is SCORING_UNAVAILABLE. Both are retryable by the caller; the
// engine itself never retries.
func mapScoringError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.ClassificationUnavailable(err)
	}
	if apperr.IsCode(err, apperr.CodeScoringUnavailable) || apperr.IsCode(err, apperr.CodeClassificationUnavailable) {
		return err
	}
	return apperr.ScoringUnavailable(err)
}
