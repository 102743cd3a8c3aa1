package classification

import (
	"context"
	"strings"
	"testing"
)

func TestKeywordModelScoresCandidatesOnly(t *testing.T) {
	model := NewKeywordModel()
	candidates := []string{"Patient Care & Treatment", "Billing & Insurance"}

	result, err := model.Score(context.Background(),
		"Overcharged on discharge bill\n\nThe billing desk added charges for medicines never given. I want a refund.",
		candidates)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if len(result.Scores) != len(candidates) {
		t.Fatalf("scores = %d, want one per candidate (%d)", len(result.Scores), len(candidates))
	}
	seen := map[string]bool{}
	for _, s := range result.Scores {
		seen[s.Label] = true
		if s.Probability < 0 || s.Probability > 100 {
			t.Errorf("probability %v out of range for %q", s.Probability, s.Label)
		}
	}
	for _, c := range candidates {
		if !seen[c] {
			t.Errorf("candidate %q missing from scores", c)
		}
	}

	var billing, care float64
	for _, s := range result.Scores {
		switch s.Label {
		case "Billing & Insurance":
			billing = s.Probability
		case "Patient Care & Treatment":
			care = s.Probability
		}
	}
	if billing <= care {
		t.Errorf("billing score %v not above patient care %v for a billing complaint", billing, care)
	}
}

func TestKeywordModelAuxiliarySignals(t *testing.T) {
	model := NewKeywordModel()

	result, err := model.Score(context.Background(),
		"Sewage overflow near Block 12\n\nRaw sewage has been overflowing for weeks. Several families are affected and children are getting sick. This is dangerous and we have complained again and again.",
		[]string{"Water Supply & Drainage", "Waste Management"})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	aux := result.Auxiliary
	if aux.Sentiment.Urgency <= 30 {
		t.Errorf("urgency = %v, want raised above baseline for urgent text", aux.Sentiment.Urgency)
	}
	if aux.Sentiment.Frustration <= 25 {
		t.Errorf("frustration = %v, want raised above baseline", aux.Sentiment.Frustration)
	}
	if len(aux.RiskFactors) == 0 {
		t.Error("no risk factors extracted from hazardous, long-running issue")
	}
	if len(aux.KeyInsights) == 0 {
		t.Error("no insights extracted from recurring, multi-person issue")
	}
	if aux.UsersAffected == "Unknown" {
		t.Errorf("users affected = %q, want crowd estimate", aux.UsersAffected)
	}
}

func TestKeywordModelAffectedCount(t *testing.T) {
	model := NewKeywordModel()

	result, err := model.Score(context.Background(),
		"Wifi outage\n\nAround 200 students in the hostel cannot access the internet.",
		[]string{"IT & Technical Support"})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if !strings.Contains(result.Auxiliary.UsersAffected, "200") {
		t.Errorf("users affected = %q, want count from text", result.Auxiliary.UsersAffected)
	}
}

func TestKeywordModelHonorsContext(t *testing.T) {
	model := NewKeywordModel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := model.Score(ctx, "anything", []string{"Other"}); err == nil {
		t.Error("Score() with cancelled context succeeded, want error")
	}
}
