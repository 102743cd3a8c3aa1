package out

import (
	"context"

	"triage_server/core/domain"
)

// ModelScore is one (label, probability) pair returned by a scoring model.
// Probability is a percentage; the engine clamps it to [0, 100].
type ModelScore struct {
	Label       string
	Probability float64
}

// ModelAuxiliary carries the model's auxiliary text signals. All fields are
// optional; empty values are valid.
type ModelAuxiliary struct {
	Sentiment     domain.Sentiment
	RiskFactors   []string
	KeyInsights   []string
	UsersAffected string
	UnitsImpacted int
}

// ScoringResult is the full output of one scoring call.
type ScoringResult struct {
	// Scores hold category probabilities. The model must only use labels
	// from the candidate set; the engine drops anything else.
	Scores    []ModelScore
	Auxiliary ModelAuxiliary
	ModelName string
}

// ScoringModel is the pluggable classification capability. Implementations
// range from the deterministic keyword model to a remote LLM; the engine
// treats all of them as fallible and possibly slow, so callers apply a
// timeout via ctx.
type ScoringModel interface {
	// Score rates the text against the candidate labels. It returns
	// SCORING_UNAVAILABLE on backend failure. Implementations must be
	// deterministic for identical (text, candidates, model-state).
	Score(ctx context.Context, text string, candidates []string) (*ScoringResult, error)
}
