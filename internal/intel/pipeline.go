package intel

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clearsignal/intel-cli/internal/cost"
	"github.com/clearsignal/intel-cli/internal/model"
	"github.com/clearsignal/intel-cli/internal/monitoring"
)

// Pipeline runs one intelligence request end to end: map, compile,
// fetch, extract, assemble. Stateless across requests; the collector is
// the only shared collaborator and is concurrency-safe.
type Pipeline struct {
	client    *Client
	collector *monitoring.Collector
	pricing   *cost.Calculator
}

// NewPipeline creates a Pipeline. collector and pricing may be nil.
func NewPipeline(client *Client, collector *monitoring.Collector, pricing *cost.Calculator) *Pipeline {
	return &Pipeline{client: client, collector: collector, pricing: pricing}
}

// Run produces exactly one envelope per request. Invalid requests are
// rejected with a local validation error before any provider call; every
// other failure mode, including a panic inside synthesis, resolves to a
// degraded but well-formed envelope.
func (p *Pipeline) Run(ctx context.Context, req model.IntelligenceRequest) (env *model.IntelligenceEnvelope, err error) {
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	requestID := uuid.NewString()
	start := time.Now()
	log := zap.L().With(
		zap.String("request_id", requestID),
		zap.String("subject", req.SubjectName),
		zap.String("category", string(req.SearchCategory)),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("intel: synthesis panicked, emitting generic fallback", zap.Any("panic", r))
			env = GenericFallback(req, requestID, time.Now().UTC())
			err = nil
			p.record(env.Provenance.DegradationReason, true, 0)
		}
	}()

	constraints := MapConstraints(req.SearchCategory, req.RecencyWindow)
	if constraints.Clamped {
		log.Info("intel: recency window clamped to provider maximum",
			zap.String("requested", string(req.RecencyWindow)),
			zap.String("effective", constraints.RecencyFilter),
		)
	}

	prompt := Compile(req, constraints)
	if prompt.QueryTruncated {
		log.Warn("intel: query truncated to fit prompt ceiling",
			zap.Int("ceiling", maxPromptChars),
		)
	}

	result := p.client.Fetch(ctx, prompt)

	var ext *Extraction
	if result.Outcome == OutcomeSuccess {
		e := Extract(result.Narrative, req)
		ext = &e
	}

	env = Assemble(result, ext, req, requestID, time.Now().UTC())

	queryCost := 0.0
	if result.Outcome != OutcomeUnconfigured && p.pricing != nil {
		queryCost = p.pricing.PerplexityQuery()
	}
	p.record(string(result.Outcome), env.Degraded(), queryCost)

	log.Info("intel: request complete",
		zap.String("outcome", string(result.Outcome)),
		zap.Int("data_quality", env.QualityMetrics.DataQuality),
		zap.Int("insights", len(env.Insights)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return env, nil
}

func (p *Pipeline) record(outcome string, degraded bool, costUSD float64) {
	if p.collector != nil {
		p.collector.Record(outcome, degraded, costUSD)
	}
}
