package intel

import (
	"fmt"
	"strings"
	"time"

	"github.com/clearsignal/intel-cli/internal/model"
)

const providerName = "perplexity"

// Quality tiers for the degradation paths. Live runs compute their own.
const (
	qualityUnconfigured = 0
	qualityFallback     = 25
	qualityGeneric      = 0
)

// Assemble maps one terminal provider outcome onto the single caller
// envelope shape. Total over every Outcome tag: any RawProviderResult
// yields a structurally valid envelope, and only field values and the
// optional degradation reason vary by path.
func Assemble(result RawProviderResult, ext *Extraction, req model.IntelligenceRequest, requestID string, now time.Time) *model.IntelligenceEnvelope {
	switch result.Outcome {
	case OutcomeSuccess:
		return assembleLive(result, ext, req, requestID, now)
	case OutcomeUnconfigured:
		return assembleUnconfigured(req, requestID, now)
	case OutcomeEmptyPayload:
		// Callers match on this tag; the client's human-readable reason
		// stays internal.
		return assembleFallback("empty-payload", req, requestID, now)
	case OutcomeTransportError, OutcomeException:
		return assembleFallback(result.Reason, req, requestID, now)
	default:
		return GenericFallback(req, requestID, now)
	}
}

func assembleLive(result RawProviderResult, ext *Extraction, req model.IntelligenceRequest, requestID string, now time.Time) *model.IntelligenceEnvelope {
	if ext == nil {
		e := Extract(result.Narrative, req)
		ext = &e
	}

	sources := ext.Sources
	if len(result.Citations) > 0 {
		sources = append(append([]string{}, sources...), result.Citations...)
	}

	env := &model.IntelligenceEnvelope{
		Narrative:        result.Narrative,
		StrategicSummary: summarize(result.Narrative, req),
		RelatedQuestions: orEmpty(result.RelatedQuestions),
		Insights:         ext.Insights,
		Threats:          ext.Threats,
		Opportunities:    ext.Opportunities,
		QualityMetrics: model.QualityMetrics{
			DataQuality:     ext.DataQuality,
			SourceCount:     ext.SourceCount,
			ConfidenceScore: ext.ConfidenceScore,
		},
	}
	env.Provenance = provenance(req, requestID, now, ext.DataQuality, sources, "")
	return env
}

func assembleUnconfigured(req model.IntelligenceRequest, requestID string, now time.Time) *model.IntelligenceEnvelope {
	narrative := fmt.Sprintf(
		"Live intelligence is not configured for this deployment. Set the provider API key to enable web-grounded analysis of %s. The insight below illustrates the output shape.",
		req.SubjectName,
	)

	env := &model.IntelligenceEnvelope{
		Narrative:        narrative,
		StrategicSummary: fmt.Sprintf("Provider unconfigured; no live intelligence gathered for %s.", req.SubjectName),
		RelatedQuestions: []string{},
		Insights: []model.IntelligenceInsight{
			{
				Category:    model.InsightSystem,
				Title:       "Intelligence provider not configured",
				Description: fmt.Sprintf("Queries about %s will return live, source-backed analysis once a provider credential is supplied.", req.SubjectName),
				Confidence:  100,
				ObservedAt:  now,
			},
		},
		Threats:       []model.ThreatRecord{},
		Opportunities: []model.OpportunityRecord{},
		QualityMetrics: model.QualityMetrics{
			DataQuality:     qualityUnconfigured,
			SourceCount:     0,
			ConfidenceScore: 0,
		},
	}
	env.Provenance = provenance(req, requestID, now, qualityUnconfigured, []string{}, "unconfigured")
	return env
}

func assembleFallback(reason string, req model.IntelligenceRequest, requestID string, now time.Time) *model.IntelligenceEnvelope {
	domain := req.DomainContext
	if domain == "" {
		domain = "its sector"
	}

	narrative := fmt.Sprintf(
		"Live intelligence on %s is temporarily unavailable. As general guidance, monitor %s for pricing moves, partnership announcements, and leadership changes until live search recovers.",
		req.SubjectName, domain,
	)

	env := &model.IntelligenceEnvelope{
		Narrative:        narrative,
		StrategicSummary: fmt.Sprintf("Degraded result for %s; retry the query to get live intelligence.", req.SubjectName),
		RelatedQuestions: []string{},
		Insights: []model.IntelligenceInsight{
			{
				Category:    model.InsightFallback,
				Title:       fmt.Sprintf("Monitoring guidance for %s", req.SubjectName),
				Description: fmt.Sprintf("Track public announcements and %s industry coverage manually until the intelligence provider recovers.", domain),
				Confidence:  40,
				ObservedAt:  now,
			},
		},
		Threats:       []model.ThreatRecord{},
		Opportunities: []model.OpportunityRecord{},
		QualityMetrics: model.QualityMetrics{
			DataQuality:     qualityFallback,
			SourceCount:     0,
			ConfidenceScore: qualityFallback,
		},
	}
	env.Provenance = provenance(req, requestID, now, qualityFallback, []string{}, reason)
	return env
}

// GenericFallback is the envelope of last resort: emitted when the
// request never parsed or assembly itself faulted. All metrics zero,
// all sequences empty, shape intact.
func GenericFallback(req model.IntelligenceRequest, requestID string, now time.Time) *model.IntelligenceEnvelope {
	env := &model.IntelligenceEnvelope{
		Narrative:        "Intelligence synthesis is temporarily unavailable. Please retry.",
		StrategicSummary: "",
		RelatedQuestions: []string{},
		Insights:         []model.IntelligenceInsight{},
		Threats:          []model.ThreatRecord{},
		Opportunities:    []model.OpportunityRecord{},
		QualityMetrics: model.QualityMetrics{
			DataQuality:     qualityGeneric,
			SourceCount:     0,
			ConfidenceScore: 0,
		},
	}
	env.Provenance = provenance(req, requestID, now, qualityGeneric, []string{}, "generic-fallback")
	return env
}

// provenance builds the metadata block and enforces the invariant that
// data confidence is always dataQuality/100.
func provenance(req model.IntelligenceRequest, requestID string, now time.Time, dataQuality int, sources []string, degradation string) model.Provenance {
	return model.Provenance{
		RequestID:         requestID,
		SearchCategory:    req.SearchCategory,
		RecencyWindow:     req.RecencyWindow,
		SubjectName:       req.SubjectName,
		DomainContext:     req.DomainContext,
		GeneratedAt:       now,
		DataConfidence:    float64(dataQuality) / 100,
		Sources:           orEmpty(sources),
		ModelTier:         modelTier,
		ProviderName:      providerName,
		DegradationReason: degradation,
	}
}

// summarize derives a one-line strategic summary from the narrative's
// leading sentence.
func summarize(narrative string, req model.IntelligenceRequest) string {
	first := narrative
	if idx := strings.IndexAny(narrative, ".!?"); idx > 0 {
		first = narrative[:idx+1]
	}
	first = strings.TrimSpace(first)
	first = truncateUTF8(first, 240)
	return fmt.Sprintf("%s: %s", req.SubjectName, first)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
