// Package ai provides the provider adapters: OpenAI-compatible chat
// completion backends (OpenRouter, Mistral, Ollama) and Gemini.
package ai

import (
	"fmt"
	"net/http"
	"time"

	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/ports"
)

// Factory builds a provider for a config definition. All providers share
// one HTTP client.
type Factory struct {
	httpClient *http.Client
}

func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (f *Factory) ForProvider(def domain.ProviderDefinition) (ports.Provider, error) {
	switch def.Kind {
	case domain.ProviderKindOpenAI:
		return newOpenAIProvider(def, f.httpClient)
	case domain.ProviderKindGemini:
		return newGeminiProvider(def, f.httpClient)
	default:
		return nil, fmt.Errorf("provider %s: unsupported kind %q", def.Name, def.Kind)
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)
