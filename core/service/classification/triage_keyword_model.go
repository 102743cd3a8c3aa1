package classification

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"triage_server/core/domain"
	"triage_server/core/port/out"
)

// KeywordModelName identifies the builtin lexicon model in results.
const KeywordModelName = "keyword-v1"

// keyword scoring weights. Probabilities are 0..100.
const (
	keywordBaseProb   = 10.0
	keywordHitWeight  = 17.0
	keywordTitleBonus = 8.0
	keywordMaxProb    = 95.0
)

// KeywordModel is a deterministic lexicon-based scoring model. It requires
// no network calls and serves both as the offline fallback when no LLM
// backend is configured and as the reference model in tests.
type KeywordModel struct {
	lexicons map[domain.DomainID]map[string][]string
}

// NewKeywordModel creates the model with the builtin per-domain lexicons.
func NewKeywordModel() *KeywordModel {
	return &KeywordModel{lexicons: builtinLexicons()}
}

// Score implements out.ScoringModel. Each candidate category is scored by
// counting lexicon keyword hits in the text; title hits weigh extra. The
// auxiliary signals are extracted from the same text, so identical inputs
// always yield identical output.
func (m *KeywordModel) Score(ctx context.Context, text string, candidates []string) (*out.ScoringResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lower := strings.ToLower(text)
	title := lower
	if idx := strings.Index(lower, "\n"); idx >= 0 {
		title = lower[:idx]
	}

	lexicon := m.lexiconFor(lower)

	scores := make([]out.ModelScore, 0, len(candidates))
	for _, category := range candidates {
		prob := keywordBaseProb
		for _, kw := range lexicon[category] {
			if !strings.Contains(lower, kw) {
				continue
			}
			prob += keywordHitWeight
			if strings.Contains(title, kw) {
				prob += keywordTitleBonus
			}
		}
		if prob > keywordMaxProb {
			prob = keywordMaxProb
		}
		scores = append(scores, out.ModelScore{Label: category, Probability: prob})
	}

	return &out.ScoringResult{
		Scores:    scores,
		Auxiliary: extractAuxiliary(lower),
		ModelName: KeywordModelName,
	}, nil
}

// lexiconFor picks the domain lexicon whose keywords best match the text.
// Candidates already restrict the output labels, so choosing by hit count
// only affects keyword coverage, never label validity.
func (m *KeywordModel) lexiconFor(lower string) map[string][]string {
	var best map[string][]string
	bestHits := -1
	for _, id := range []domain.DomainID{domain.DomainCollege, domain.DomainHospital, domain.DomainMunicipality} {
		lex := m.lexicons[id]
		hits := 0
		for _, kws := range lex {
			for _, kw := range kws {
				if strings.Contains(lower, kw) {
					hits++
				}
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = lex
		}
	}
	return best
}

var (
	urgencyMarkers = []string{
		"urgent", "immediately", "asap", "emergency", "critical",
		"still", "days", "week", "cannot", "unable", "dangerous", "getting worse",
	}
	frustrationMarkers = []string{
		"frustrated", "angry", "unacceptable", "disappointed", "worst",
		"again", "no response", "ignored", "complained", "fed up", "tired of",
	}
	recurrenceMarkers = []string{"again", "repeatedly", "every time", "keeps", "recurring"}
	durationMarkers   = []string{"days", "week", "weeks", "month", "months"}
	safetyMarkers     = []string{"danger", "unsafe", "injur", "hazard", "fire", "electric shock", "accident"}
	crowdMarkers      = []string{"multiple", "many", "several", "everyone", "all of us", "entire"}

	affectedCountRe = regexp.MustCompile(`(\d+)\s*(?:\+\s*)?(students|patients|residents|people|users|families|staff)`)
	locationRe      = regexp.MustCompile(`\b(?:lh|room|ward|block|lab|hall|street|sector|bed)[\s-]?\d+\b`)
)

// extractAuxiliary derives sentiment, risk factors, insights and impact
// estimates from surface features of the text.
func extractAuxiliary(lower string) out.ModelAuxiliary {
	urgency := 30.0
	for _, m := range urgencyMarkers {
		if strings.Contains(lower, m) {
			urgency += 12
		}
	}

	frustration := 25.0
	for _, m := range frustrationMarkers {
		if strings.Contains(lower, m) {
			frustration += 12
		}
	}

	clarity := 40.0
	if len(lower) >= 120 {
		clarity += 20
	}
	if locationRe.MatchString(lower) {
		clarity += 20
	}
	if strings.Count(lower, ".") >= 2 {
		clarity += 10
	}

	var risks []string
	if containsAny(lower, safetyMarkers) {
		risks = append(risks, "Text indicates a potential safety hazard")
	}
	if containsAny(lower, durationMarkers) {
		risks = append(risks, "Issue has gone unresolved for an extended period")
	}
	if containsAny(lower, frustrationMarkers) {
		risks = append(risks, "Reporter expresses significant dissatisfaction")
	}

	var insights []string
	if containsAny(lower, recurrenceMarkers) {
		insights = append(insights, "Issue appears to be recurring")
	}
	if containsAny(lower, crowdMarkers) || affectedCountRe.MatchString(lower) {
		insights = append(insights, "Multiple people are affected")
	}
	if locationRe.MatchString(lower) {
		insights = append(insights, "Report names a specific location")
	}

	return out.ModelAuxiliary{
		Sentiment: domain.Sentiment{
			Urgency:     domain.Clamp01to100(urgency),
			Frustration: domain.Clamp01to100(frustration),
			Clarity:     domain.Clamp01to100(clarity),
		},
		RiskFactors:   risks,
		KeyInsights:   insights,
		UsersAffected: estimateUsersAffected(lower),
		UnitsImpacted: len(locationRe.FindAllString(lower, -1)),
	}
}

func estimateUsersAffected(lower string) string {
	if m := affectedCountRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return fmt.Sprintf("~%d %s", n, m[2])
		}
	}
	if containsAny(lower, crowdMarkers) {
		return "Multiple people"
	}
	return "Unknown"
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// builtinLexicons maps each builtin domain's categories to lowercase trigger
// keywords. Every category carries at least a couple of entries so unmatched
// text degrades to the flat base probability rather than zero.
func builtinLexicons() map[domain.DomainID]map[string][]string {
	return map[domain.DomainID]map[string][]string{
		domain.DomainCollege: {
			"Infrastructure/Facilities": {"fan", "not working", "broken", "leak", "air condition", "light", "electric", "classroom", "lecture hall", "lh-", "projector", "bench", "window", "washroom", "water cooler"},
			"Fee & Financial Issues":    {"fee", "fees", "refund", "scholarship", "fine", "payment", "receipt"},
			"IT & Technical Support":    {"wifi", "wi-fi", "internet", "portal", "login", "password", "lab computer", "erp"},
			"Food Services/Canteen":     {"canteen", "food", "mess food", "stale", "hygiene", "menu"},
			"Parking & Transportation":  {"parking", "bus", "shuttle", "transport", "route", "driver"},
			"Academic Administration":   {"professor", "syllabus", "exam", "marks", "grading", "attendance", "course", "transcript", "certificate", "admission"},
			"Hostel & Accommodation":    {"hostel", "warden", "laundry", "roommate", "curfew"},
			"Safety & Security":         {"ragging", "harassment", "theft", "security", "unsafe", "guard", "cctv"},
			"Other":                     {},
		},
		domain.DomainHospital: {
			"Patient Care & Treatment":  {"nurse", "doctor", "treatment", "care", "attention", "pain", "diagnosis", "discharge"},
			"Billing & Insurance":       {"bill", "billing", "insurance", "charge", "overcharge", "refund", "claim"},
			"Facilities & Hygiene":      {"ward", "bed", "toilet", "clean", "dirty", "lift", "elevator", "leak", "hygiene"},
			"Staff Behavior":            {"rude", "behavior", "behaviour", "misconduct", "attitude", "shouted"},
			"Pharmacy & Medication":     {"pharmacy", "medicine", "medication", "prescription", "dose", "stock", "expired"},
			"Appointments & Wait Times": {"wait", "waiting", "queue", "delay", "appointment", "reschedul"},
			"Medical Equipment":         {"machine", "scanner", "x-ray", "ventilator", "monitor", "equipment"},
			"Other":                     {},
		},
		domain.DomainMunicipality: {
			"Roads & Infrastructure":  {"road", "pothole", "footpath", "bridge", "signal", "pavement", "speed breaker"},
			"Water Supply & Drainage": {"water supply", "tap", "pipeline", "borewell", "water pressure", "drain", "drainage", "sewage"},
			"Waste Management":        {"garbage", "trash", "waste", "dump", "sanitation", "sweep"},
			"Street Lighting":         {"street light", "streetlight", "lamp", "dark street", "pole"},
			"Public Safety":           {"stray", "crime", "unsafe", "accident", "encroachment", "illegal"},
			"Parks & Recreation":      {"park", "playground", "garden", "gym equipment"},
			"Property Tax & Billing":  {"property tax", "tax", "khata", "assessment", "mutation"},
			"Other":                   {},
		},
	}
}
