// Package provider holds the outbound LLM adapter implementing the scoring
// model port against the OpenAI chat completions API.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"
	"triage_server/pkg/logger"
)

// defaultModel is used when the config leaves the model blank. Kept as a
// literal because the pinned client release predates its named constant.
const defaultModel = "gpt-4o-mini"

const systemPrompt = `You are a complaint triage assistant for institutional complaint management.
Rate the complaint against every candidate category with a probability from 0 to 100.
Also extract sentiment scores (urgency, frustration, clarity: 0-100), up to five risk
factors, up to five key insights, an estimate of how many people are affected, and the
number of distinct locations mentioned.
Respond with JSON only, using exactly this shape:
{"scores":[{"category":"...","probability":0}],"sentiment":{"urgency":0,"frustration":0,"clarity":0},"risk_factors":[],"key_insights":[],"users_affected":"...","units_impacted":0}`

// scorePayload is the JSON contract with the model.
type scorePayload struct {
	Scores []struct {
		Category    string  `json:"category"`
		Probability float64 `json:"probability"`
	} `json:"scores"`
	Sentiment struct {
		Urgency     float64 `json:"urgency"`
		Frustration float64 `json:"frustration"`
		Clarity     float64 `json:"clarity"`
	} `json:"sentiment"`
	RiskFactors   []string `json:"risk_factors"`
	KeyInsights   []string `json:"key_insights"`
	UsersAffected string   `json:"users_affected"`
	UnitsImpacted int      `json:"units_impacted"`
}

// OpenAIConfig configures the adapter.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string // optional, for compatible endpoints
	Model     string
	MaxTokens int
}

// OpenAIModel implements out.ScoringModel over the OpenAI API. Calls run
// through a circuit breaker so a dead backend fails fast instead of eating
// the scoring timeout on every complaint.
type OpenAIModel struct {
	client  *openai.Client
	model   string
	maxTok  int
	breaker *gobreaker.CircuitBreaker
	log     *logger.Logger
}

// NewOpenAIModel creates the adapter. The API key must be set; the caller
// decides whether to fall back to the keyword model when it is not.
func NewOpenAIModel(cfg OpenAIConfig, log *logger.Logger) (*OpenAIModel, error) {
	if cfg.APIKey == "" {
		return nil, apperr.ConfigError("openai api key not set")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "openai-scoring",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("scoring circuit breaker state changed")
		},
	})

	return &OpenAIModel{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		maxTok:  cfg.MaxTokens,
		breaker: breaker,
		log:     log,
	}, nil
}

// Score implements out.ScoringModel. Temperature is pinned to zero so equal
// inputs reproduce equal outputs as far as the backend allows.
func (m *OpenAIModel) Score(ctx context.Context, text string, candidates []string) (*out.ScoringResult, error) {
	userPrompt := fmt.Sprintf("Candidate categories:\n%s\n\nComplaint:\n%s",
		strings.Join(candidates, "\n"), text)

	raw, err := m.breaker.Execute(func() (any, error) {
		return m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       m.model,
			Temperature: 0,
			MaxTokens:   m.maxTok,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
		})
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperr.ScoringUnavailable(err)
	}

	resp := raw.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 {
		return nil, apperr.ScoringUnavailable(fmt.Errorf("empty completion from %s", m.model))
	}

	var payload scorePayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, apperr.ScoringUnavailable(fmt.Errorf("malformed completion: %w", err))
	}

	scores := make([]out.ModelScore, 0, len(payload.Scores))
	for _, s := range payload.Scores {
		scores = append(scores, out.ModelScore{Label: s.Category, Probability: s.Probability})
	}

	return &out.ScoringResult{
		Scores: scores,
		Auxiliary: out.ModelAuxiliary{
			Sentiment: domain.Sentiment{
				Urgency:     payload.Sentiment.Urgency,
				Frustration: payload.Sentiment.Frustration,
				Clarity:     payload.Sentiment.Clarity,
			},
			RiskFactors:   payload.RiskFactors,
			KeyInsights:   payload.KeyInsights,
			UsersAffected: payload.UsersAffected,
			UnitsImpacted: payload.UnitsImpacted,
		},
		ModelName: "openai:" + m.model,
	}, nil
}
