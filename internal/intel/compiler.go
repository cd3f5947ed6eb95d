package intel

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/clearsignal/intel-cli/internal/model"
)

// maxPromptChars is the hard ceiling on the compiled user prompt. The
// provider truncates (or rejects) oversized inputs; bounding here keeps
// prompt size predictable and the failure local.
const maxPromptChars = 2000

// maxPrefixFieldChars bounds the caller-supplied subject and domain
// inside the prompt prefix, so the prefix can never consume the whole
// prompt ceiling on its own.
const maxPrefixFieldChars = 200

// CompiledPrompt is the provider-ready form of one request. Created once
// per request and never persisted.
type CompiledPrompt struct {
	SystemInstruction string
	UserPrompt        string
	ModelTier         string
	MaxOutputTokens   int
	RecencyFilter     string
	QueryTruncated    bool
}

var systemInstructions = map[model.SearchCategory]string{
	model.CategoryNews:        "You are a competitive-intelligence analyst. Summarize current news about the subject company with concrete facts, figures, and named sources.",
	model.CategoryFinancial:   "You are a financial-intelligence analyst. Report the subject company's financial results, funding, and outlook with concrete figures and named sources.",
	model.CategoryCompetitive: "You are a competitive-intelligence analyst. Assess the subject company's competitive position, product moves, and strategy with concrete evidence and named sources.",
	model.CategoryMarket:      "You are a market-intelligence analyst. Describe market trends and industry dynamics affecting the subject company with concrete data and named sources.",
	model.CategoryRegulatory:  "You are a regulatory-intelligence analyst. Report regulatory, compliance, and legal developments affecting the subject company with named sources.",
}

// SystemInstruction returns the stable per-category system prompt.
func SystemInstruction(category model.SearchCategory) string {
	if s, ok := systemInstructions[category]; ok {
		return s
	}
	return systemInstructions[model.CategoryNews]
}

// Compile builds the provider prompt from a validated request and its
// mapped constraints. The user prompt concatenates subject, domain,
// emphasis, recency, and query in a fixed order so its size stays
// predictable; an oversized raw query is truncated and flagged, never
// treated as an error.
func Compile(req model.IntelligenceRequest, c Constraints) CompiledPrompt {
	domain := req.DomainContext
	if domain == "" {
		domain = "its industry"
	}
	domain = truncateUTF8(domain, maxPrefixFieldChars)
	subject := truncateUTF8(req.SubjectName, maxPrefixFieldChars)

	prefix := fmt.Sprintf(
		"Analyze %s operating in %s. Focus on %s over %s. Question: ",
		subject, domain, c.TopicalEmphasis, c.RecencyPhrase,
	)

	query := req.Query
	truncated := false
	if len(prefix)+len(query) > maxPromptChars {
		budget := maxPromptChars - len(prefix)
		if budget < 0 {
			budget = 0
		}
		query = strings.TrimSpace(truncateUTF8(query, budget))
		truncated = true
	}

	return CompiledPrompt{
		SystemInstruction: SystemInstruction(req.SearchCategory),
		UserPrompt:        prefix + query,
		ModelTier:         c.ModelTier,
		MaxOutputTokens:   c.MaxOutputTokens,
		RecencyFilter:     c.RecencyFilter,
		QueryTruncated:    truncated,
	}
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune:
// valid UTF-8 in means valid UTF-8 out.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
