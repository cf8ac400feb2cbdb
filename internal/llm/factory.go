package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates an LLM provider based on configuration. An empty
// provider name means the explainer is disabled and returns (nil, nil).
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}
