package intel

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/clearsignal/intel-cli/internal/model"
)

// Extraction holds everything derived from one narrative. Pure output of
// Extract: no I/O happens past the provider call.
type Extraction struct {
	Insights        []model.IntelligenceInsight
	Threats         []model.ThreatRecord
	Opportunities   []model.OpportunityRecord
	DataQuality     int
	ConfidenceScore int
	SourceCount     int
	Sources         []string
}

var (
	currencyPattern = regexp.MustCompile(`[$€£]\s?\d|\d+(\.\d+)?\s?%`)

	financialMarkers   = []string{"revenue", "earnings", "profit", "funding", "valuation", "margin"}
	strategicMarkers   = []string{"partnership", "acquisition", "merger", "alliance", "expansion", "launch"}
	competitiveMarkers = []string{"market share", "competitive", "competitor", "rival", "pricing pressure"}

	attributionPhrases = []string{"according to", "source:", "reported by", "cited by"}

	// Publications recognized for named-source extraction.
	knownPublications = []string{
		"Reuters", "Bloomberg", "Financial Times", "Wall Street Journal",
		"CNBC", "Forbes", "TechCrunch", "The Economist",
		"Business Insider", "Associated Press",
	}
)

// placeholderSource keeps provenance sources non-empty when a narrative
// names no recognized publication.
const placeholderSource = "aggregated web sources"

const longNarrativeThreshold = 500

// Extract derives insights, template threat/opportunity records, and
// quality metrics from a narrative via lexical pattern matching.
// Deterministic for a fixed narrative and clock day; no network calls.
func Extract(narrative string, req model.IntelligenceRequest) Extraction {
	now := time.Now().UTC()
	lower := strings.ToLower(narrative)

	ext := Extraction{
		Insights:      deriveInsights(narrative, lower, req, now),
		Threats:       []model.ThreatRecord{templateThreat(req)},
		Opportunities: []model.OpportunityRecord{templateOpportunity(req)},
		SourceCount:   countAttributions(lower),
		Sources:       namedSources(lower),
	}

	ext.DataQuality = scoreQuality(narrative, lower, now)
	ext.ConfidenceScore = scoreConfidence(ext)

	return ext
}

// deriveInsights emits at most one insight per category.
func deriveInsights(narrative, lower string, req model.IntelligenceRequest, now time.Time) []model.IntelligenceInsight {
	insights := []model.IntelligenceInsight{}

	if currencyPattern.MatchString(narrative) && containsAny(lower, financialMarkers...) {
		insights = append(insights, model.IntelligenceInsight{
			Category:    model.InsightFinancial,
			Title:       fmt.Sprintf("Financial signals detected for %s", req.SubjectName),
			Description: fmt.Sprintf("The narrative reports concrete financial figures for %s, indicating fresh revenue, earnings, or funding activity.", req.SubjectName),
			Confidence:  80,
			ObservedAt:  now,
		})
	}

	if containsAny(lower, strategicMarkers...) {
		insights = append(insights, model.IntelligenceInsight{
			Category:    model.InsightStrategic,
			Title:       fmt.Sprintf("Strategic movement around %s", req.SubjectName),
			Description: fmt.Sprintf("Partnership, M&A, or expansion activity involving %s appears in current coverage.", req.SubjectName),
			Confidence:  75,
			ObservedAt:  now,
		})
	}

	if containsAny(lower, competitiveMarkers...) {
		insights = append(insights, model.IntelligenceInsight{
			Category:    model.InsightCompetitive,
			Title:       fmt.Sprintf("Competitive dynamics affecting %s", req.SubjectName),
			Description: fmt.Sprintf("Coverage discusses market share or competitor moves relevant to %s's position.", req.SubjectName),
			Confidence:  72,
			ObservedAt:  now,
		})
	}

	return insights
}

// scoreQuality accumulates fixed increments for independent signals and
// clamps once at the end, so ordering never changes the score.
func scoreQuality(narrative, lower string, now time.Time) int {
	score := 50

	if currencyPattern.MatchString(narrative) {
		score += 20
	}
	if containsRecentYear(narrative, now) {
		score += 15
	}
	if len(narrative) > longNarrativeThreshold {
		score += 10
	}
	if containsAny(lower, attributionPhrases...) {
		score += 15
	}

	return clamp(score, 0, 100)
}

func scoreConfidence(ext Extraction) int {
	score := 60 + 5*len(ext.Insights)
	if ext.SourceCount > 0 {
		score += 10
	}
	return clamp(score, 0, 100)
}

// containsRecentYear checks for the current year or the two prior years.
func containsRecentYear(narrative string, now time.Time) bool {
	year := now.Year()
	for y := year - 2; y <= year; y++ {
		if strings.Contains(narrative, fmt.Sprintf("%d", y)) {
			return true
		}
	}
	return false
}

// countAttributions sums every occurrence of every attribution phrase; a
// phrase appearing N times contributes N.
func countAttributions(lower string) int {
	total := 0
	for _, phrase := range attributionPhrases {
		total += strings.Count(lower, phrase)
	}
	return total
}

// namedSources returns the recognized publications present in the
// narrative, or the generic placeholder when none match.
func namedSources(lower string) []string {
	var sources []string
	for _, pub := range knownPublications {
		if strings.Contains(lower, strings.ToLower(pub)) {
			sources = append(sources, pub)
		}
	}
	if len(sources) == 0 {
		sources = []string{placeholderSource}
	}
	return sources
}

// templateThreat and templateOpportunity are illustrative records
// parameterized by the request, not mined from the narrative.
func templateThreat(req model.IntelligenceRequest) model.ThreatRecord {
	domain := req.DomainContext
	if domain == "" {
		domain = "its market"
	}
	return model.ThreatRecord{
		Category:    "competitive",
		Title:       fmt.Sprintf("Competitive pressure on %s", req.SubjectName),
		Description: fmt.Sprintf("Rivals in %s may move faster on the developments covered in this briefing, eroding %s's differentiation.", domain, req.SubjectName),
		Severity:    model.LevelMedium,
		Likelihood:  model.LevelMedium,
	}
}

func templateOpportunity(req model.IntelligenceRequest) model.OpportunityRecord {
	domain := req.DomainContext
	if domain == "" {
		domain = "its market"
	}
	return model.OpportunityRecord{
		Category:    "strategic",
		Title:       fmt.Sprintf("Positioning window for %s", req.SubjectName),
		Description: fmt.Sprintf("Current activity in %s opens room for %s to differentiate before competitors consolidate their response.", domain, req.SubjectName),
		Potential:   model.LevelMedium,
		Timeframe:   model.HorizonMediumTerm,
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
