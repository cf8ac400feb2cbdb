package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ppiankov/fabula/internal/model"
)

// Explainer wraps a provider with request throttling and turns raw responses
// into report summaries. The explanation never affects the decision: it is
// generated after aggregation and attached alongside it.
type Explainer struct {
	provider Provider
	limiter  *rate.Limiter
	config   Config
}

// NewExplainer creates an explainer from configuration. Returns nil when no
// provider is configured.
func NewExplainer(config Config) (*Explainer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Explainer{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured
func (e *Explainer) IsEnabled() bool {
	return e != nil && e.provider != nil
}

// Explain generates an explanation for a completed report
func (e *Explainer) Explain(ctx context.Context, report model.Report) (*model.ExplainerSummary, error) {
	if !e.IsEnabled() {
		return nil, nil
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := e.provider.Explain(ctx, ExplainRequest{
		Report:    report,
		Model:     e.config.Model,
		MaxTokens: e.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%s explain: %w", e.provider.Name(), err)
	}

	return &model.ExplainerSummary{
		Enabled:    true,
		Provider:   e.provider.Name(),
		Model:      resp.Model,
		Text:       resp.Text,
		TokensUsed: resp.TokensUsed,
	}, nil
}
