package classification

import (
	"context"

	"triage_server/core/port/out"
	"triage_server/pkg/logger"
)

// FallbackModel chains a primary scoring model with a fallback. The primary
// is typically the remote LLM adapter and the fallback the keyword model, so
// classification keeps working when the backend is down or unconfigured.
type FallbackModel struct {
	primary  out.ScoringModel
	fallback out.ScoringModel
	log      *logger.Logger
}

// NewFallbackModel chains primary and fallback.
func NewFallbackModel(primary, fallback out.ScoringModel, log *logger.Logger) *FallbackModel {
	return &FallbackModel{primary: primary, fallback: fallback, log: log}
}

// Score tries the primary model and degrades to the fallback on failure.
// A context already past its deadline is not retried against the fallback;
// the caller's deadline error is surfaced as-is.
func (m *FallbackModel) Score(ctx context.Context, text string, candidates []string) (*out.ScoringResult, error) {
	result, err := m.primary.Score(ctx, text, candidates)
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	m.log.WithError(err).Warn("primary scoring model failed, using fallback")
	return m.fallback.Score(ctx, text, candidates)
}
