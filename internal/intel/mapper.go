package intel

import "github.com/clearsignal/intel-cli/internal/model"

// Model tier and output ceiling are fixed on the small tier: the
// pipeline optimizes for answer rate, not maximal quality.
const (
	modelTier       = "sonar"
	maxOutputTokens = 1024
)

// Constraints is the provider-facing translation of a request's
// category and recency window.
type Constraints struct {
	TopicalEmphasis string
	RecencyFilter   string
	RecencyPhrase   string
	Clamped         bool
	ModelTier       string
	MaxOutputTokens int
}

var topicalEmphasis = map[model.SearchCategory]string{
	model.CategoryNews:        "latest news, announcements, and press coverage",
	model.CategoryFinancial:   "financial performance, earnings, revenue, and funding activity",
	model.CategoryCompetitive: "competitive positioning, product moves, and go-to-market strategy",
	model.CategoryMarket:      "market trends, industry dynamics, and demand signals",
	model.CategoryRegulatory:  "regulatory filings, compliance actions, and legal developments",
}

var recencyPhrase = map[model.RecencyWindow]string{
	model.RecencyHour:    "the past hour",
	model.RecencyWeek:    "the past week",
	model.RecencyDay:     "the past 24 hours",
	model.RecencyMonth:   "the past month",
	model.RecencyQuarter: "the past quarter",
}

// MapConstraints translates a category and recency window into provider
// constraints. Pure and total over the enums: unknown values fall back
// to the news/week defaults the request validator also applies.
//
// The provider's search filter has no quarter granularity, so quarter is
// clamped to month; Clamped is set so callers can log the narrowing.
// The recency phrase keeps the caller's original intent.
func MapConstraints(category model.SearchCategory, window model.RecencyWindow) Constraints {
	emphasis, ok := topicalEmphasis[category]
	if !ok {
		emphasis = topicalEmphasis[model.CategoryNews]
	}

	phrase, ok := recencyPhrase[window]
	if !ok {
		window = model.RecencyWeek
		phrase = recencyPhrase[model.RecencyWeek]
	}

	filter := string(window)
	clamped := false
	if window == model.RecencyQuarter {
		filter = string(model.RecencyMonth)
		clamped = true
	}

	return Constraints{
		TopicalEmphasis: emphasis,
		RecencyFilter:   filter,
		RecencyPhrase:   phrase,
		Clamped:         clamped,
		ModelTier:       modelTier,
		MaxOutputTokens: maxOutputTokens,
	}
}
