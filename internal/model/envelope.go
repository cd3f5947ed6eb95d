package model

import "time"

// InsightCategory classifies a derived insight.
type InsightCategory string

const (
	InsightFinancial   InsightCategory = "financial"
	InsightStrategic   InsightCategory = "strategic"
	InsightCompetitive InsightCategory = "competitive"
	InsightSystem      InsightCategory = "system"
	InsightFallback    InsightCategory = "fallback"
)

// Level is a closed low/medium/high vocabulary used for threat severity,
// threat likelihood, and opportunity potential.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Horizon is a closed vocabulary for opportunity timeframes.
type Horizon string

const (
	HorizonShortTerm  Horizon = "short-term"
	HorizonMediumTerm Horizon = "medium-term"
	HorizonLongTerm   Horizon = "long-term"
)

// IntelligenceInsight is one structured observation derived from a
// narrative. Zero insights per run is valid.
type IntelligenceInsight struct {
	Category    InsightCategory `json:"category"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Confidence  int             `json:"confidence"`
	ObservedAt  time.Time       `json:"observed_at"`
}

// ThreatRecord is an illustrative threat derived per run.
type ThreatRecord struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    Level  `json:"severity"`
	Likelihood  Level  `json:"likelihood"`
}

// OpportunityRecord is an illustrative opportunity derived per run.
type OpportunityRecord struct {
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Potential   Level   `json:"potential"`
	Timeframe   Horizon `json:"timeframe"`
}

// QualityMetrics summarizes how trustworthy the envelope content is.
type QualityMetrics struct {
	DataQuality     int `json:"data_quality"`
	SourceCount     int `json:"source_count"`
	ConfidenceScore int `json:"confidence_score"`
}

// Provenance records how, when, and with what confidence an envelope was
// produced. DegradationReason is set only on degraded paths.
type Provenance struct {
	RequestID         string         `json:"request_id"`
	SearchCategory    SearchCategory `json:"search_category"`
	RecencyWindow     RecencyWindow  `json:"recency_window"`
	SubjectName       string         `json:"subject_name"`
	DomainContext     string         `json:"domain_context"`
	GeneratedAt       time.Time      `json:"generated_at"`
	DataConfidence    float64        `json:"data_confidence"`
	Sources           []string       `json:"sources"`
	ModelTier         string         `json:"model_tier"`
	ProviderName      string         `json:"provider_name"`
	DegradationReason string         `json:"degradation_reason,omitempty"`
}

// IntelligenceEnvelope is the single response shape callers receive, for
// live and degraded runs alike. Invariant: Provenance.DataConfidence is
// always QualityMetrics.DataQuality / 100.
type IntelligenceEnvelope struct {
	Narrative        string                `json:"narrative"`
	StrategicSummary string                `json:"strategic_summary"`
	RelatedQuestions []string              `json:"related_questions"`
	Insights         []IntelligenceInsight `json:"insights"`
	Threats          []ThreatRecord        `json:"threats"`
	Opportunities    []OpportunityRecord   `json:"opportunities"`
	QualityMetrics   QualityMetrics        `json:"quality_metrics"`
	Provenance       Provenance            `json:"provenance"`
}

// Degraded reports whether the envelope came from a degradation path.
func (e *IntelligenceEnvelope) Degraded() bool {
	return e.Provenance.DegradationReason != ""
}
