package intel

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clearsignal/intel-cli/pkg/perplexity"
)

// Outcome tags the terminal state of one provider call.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeUnconfigured   Outcome = "unconfigured"
	OutcomeTransportError Outcome = "transport-error"
	OutcomeEmptyPayload   Outcome = "empty-payload"
	OutcomeException      Outcome = "exception"
)

// RawProviderResult is the data form of a provider call's outcome.
// Exactly one narrative is non-empty (Success); the error outcomes carry
// a Reason instead.
type RawProviderResult struct {
	Narrative        string
	RelatedQuestions []string
	Citations        []string
	Outcome          Outcome
	Reason           string
}

// Client wraps the provider API and converts every possible failure into
// a RawProviderResult tag. No error and no panic crosses this boundary,
// and exactly one attempt is made per call.
type Client struct {
	api     perplexity.Client
	apiKey  string
	timeout time.Duration
}

// NewClient creates an intelligence client. An empty apiKey is valid and
// routes every call to OutcomeUnconfigured without touching the network.
func NewClient(api perplexity.Client, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{api: api, apiKey: apiKey, timeout: timeout}
}

// Configured reports whether a provider credential is present.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

// Fetch issues the compiled prompt to the provider and classifies the
// result. The call is bounded by the client timeout; a timeout is
// treated the same as any other transport failure.
func (c *Client) Fetch(ctx context.Context, prompt CompiledPrompt) RawProviderResult {
	if !c.Configured() {
		zap.L().Debug("intel: provider credential absent, skipping call")
		return RawProviderResult{Outcome: OutcomeUnconfigured, Reason: "unconfigured"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Model: prompt.ModelTier,
		Messages: []perplexity.Message{
			{Role: "system", Content: prompt.SystemInstruction},
			{Role: "user", Content: prompt.UserPrompt},
		},
		MaxTokens:              &prompt.MaxOutputTokens,
		SearchRecencyFilter:    prompt.RecencyFilter,
		ReturnRelatedQuestions: true,
	})
	if err != nil {
		return classifyError(err)
	}

	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return RawProviderResult{Outcome: OutcomeEmptyPayload, Reason: "empty provider response"}
	}

	return RawProviderResult{
		Narrative:        resp.Choices[0].Message.Content,
		RelatedQuestions: resp.RelatedQuestions,
		Citations:        resp.Citations,
		Outcome:          OutcomeSuccess,
	}
}

// classifyError maps a provider error onto the transport/exception
// split: HTTP status failures and timeouts are transport, everything
// else (marshalling, malformed JSON) is an exception.
func classifyError(err error) RawProviderResult {
	var apiErr *perplexity.APIError
	if errors.As(err, &apiErr) {
		reason := fmt.Sprintf("HTTP %d: %s", apiErr.StatusCode, compactBody(apiErr.Body))
		return RawProviderResult{Outcome: OutcomeTransportError, Reason: reason}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return RawProviderResult{Outcome: OutcomeTransportError, Reason: "provider call timed out"}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return RawProviderResult{Outcome: OutcomeTransportError, Reason: "network: " + netErr.Error()}
	}

	return RawProviderResult{Outcome: OutcomeException, Reason: "exception: " + err.Error()}
}

// compactBody flattens an error body into a single short line for the
// degradation reason.
func compactBody(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	if len(body) > 200 {
		body = body[:200]
	}
	if body == "" {
		body = "no response body"
	}
	return body
}
