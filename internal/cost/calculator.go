package cost

// Rates holds provider pricing configuration.
type Rates struct {
	Perplexity PerplexityRate `yaml:"perplexity" mapstructure:"perplexity"`
}

// PerplexityRate holds Perplexity pricing. Search-grounded queries are
// billed per request, not per token.
type PerplexityRate struct {
	PerQuery float64 `yaml:"per_query" mapstructure:"per_query"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// PerplexityQuery returns the flat cost per Perplexity query.
func (c *Calculator) PerplexityQuery() float64 {
	return c.rates.Perplexity.PerQuery
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Perplexity: PerplexityRate{PerQuery: 0.005},
	}
}
