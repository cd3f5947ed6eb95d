package main

import (
	"time"

	"github.com/clearsignal/intel-cli/internal/config"
	"github.com/clearsignal/intel-cli/internal/cost"
	"github.com/clearsignal/intel-cli/internal/intel"
	"github.com/clearsignal/intel-cli/internal/monitoring"
	"github.com/clearsignal/intel-cli/pkg/perplexity"
)

// pipelineEnv bundles the pipeline with its observability collaborators.
type pipelineEnv struct {
	Pipeline  *intel.Pipeline
	Collector *monitoring.Collector
}

// initPipeline wires the provider client, metrics collector, and cost
// calculator from configuration. The provider key is injected here, per
// call chain, never read from ambient process state further down.
func initPipeline(c *config.Config) *pipelineEnv {
	opts := []perplexity.Option{
		perplexity.WithBaseURL(c.Provider.BaseURL),
		perplexity.WithModel(c.Provider.Model),
	}
	if c.Provider.RequestsPerSecond > 0 {
		opts = append(opts, perplexity.WithRateLimit(c.Provider.RequestsPerSecond, c.Provider.Burst))
	}

	api := perplexity.NewClient(c.Provider.Key, opts...)
	client := intel.NewClient(api, c.Provider.Key, time.Duration(c.Provider.TimeoutSecs)*time.Second)

	collector := monitoring.NewCollector()
	pricing := cost.NewCalculator(cost.Rates{
		Perplexity: cost.PerplexityRate{PerQuery: c.Pricing.Perplexity.PerQuery},
	})

	return &pipelineEnv{
		Pipeline:  intel.NewPipeline(client, collector, pricing),
		Collector: collector,
	}
}
