package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/fabula/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Explain generates a prose explanation of a verdict table
	Explain(ctx context.Context, req ExplainRequest) (*ExplainResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// ExplainRequest contains the input for explanation
type ExplainRequest struct {
	// Report is the completed check to explain. The decision inside it is
	// final; the explainer only describes it.
	Report model.Report

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ExplainResponse contains the provider's output
type ExplainResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI-compatible endpoints
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// RequestsPerSecond throttles outbound calls; Burst caps bursts
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:          "", // Disabled by default
		Timeout:           30,
		MaxTokens:         500,
		RequestsPerSecond: 1,
		Burst:             1,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:          c.Provider,
		Model:             c.Model,
		APIKey:            c.APIKey,
		BaseURL:           c.BaseURL,
		Timeout:           c.Timeout,
		MaxTokens:         c.MaxTokens,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
	}
}

// BuildPrompt constructs the default prompt. The rules pin the explainer to
// describing the verdict table: it may not re-judge claims or overturn the
// decision.
func BuildPrompt(report model.Report) string {
	pass, fail, unknown := 0, 0, 0
	for _, v := range report.Verdicts {
		switch v.Status {
		case model.StatusPass:
			pass++
		case model.StatusFail:
			fail++
		default:
			unknown++
		}
	}

	prompt := fmt.Sprintf(`You are explaining the output of an automated backstory consistency check against the novel %q.

CRITICAL RULES:
1. The decision below is FINAL. Do not second-guess, re-judge, or soften it.
2. Only reference the claims and verdict counts given here. Do not invent plot details.
3. Describe evidence coverage, not truth. Use phrases like "the narrative supports..." or "no passage addresses...".

Decision: label=%d (%s)
Claims checked: %d (%d supported, %d contradicted, %d undetermined)

Contradicted claims:
`, report.Book, report.Decision.Label, report.Decision.Rationale, len(report.Verdicts), pass, fail, unknown)

	listed := 0
	for _, v := range report.Verdicts {
		if v.Status != model.StatusFail {
			continue
		}
		if listed >= 5 {
			prompt += fmt.Sprintf("... and %d more\n", fail-listed)
			break
		}
		prompt += fmt.Sprintf("- %s (core_trait=%t, contradicting passages=%d)\n", claimText(report, v.ClaimID), v.CoreTrait, len(v.Contradicting))
		listed++
	}
	if fail == 0 {
		prompt += "(none)\n"
	}

	prompt += "\nProvide a 2-3 sentence explanation of why the decision came out this way."
	return prompt
}

func claimText(report model.Report, claimID string) string {
	for _, c := range report.Claims {
		if c.ID == claimID {
			return c.Text
		}
	}
	return claimID
}
