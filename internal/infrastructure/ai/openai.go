package ai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/ports"
)

// openAIProvider speaks the OpenAI chat-completion API. With a custom
// Endpoint it covers OpenRouter, Mistral, and Ollama, which all expose the
// same wire format.
type openAIProvider struct {
	def    domain.ProviderDefinition
	client *openai.Client
}

func newOpenAIProvider(def domain.ProviderDefinition, httpClient *http.Client) (ports.Provider, error) {
	apiKey, err := resolveAPIKey(def)
	if err != nil {
		return nil, err
	}

	cfg := openai.DefaultConfig(apiKey)
	if def.Endpoint != "" {
		cfg.BaseURL = strings.TrimRight(def.Endpoint, "/")
	}
	cfg.HTTPClient = httpClient

	return &openAIProvider{def: def, client: openai.NewClientWithConfig(cfg)}, nil
}

func (p *openAIProvider) Name() string { return p.def.Name }

func (p *openAIProvider) Generate(ctx context.Context, req ports.ProviderRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, msg := range req.History {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.def.Model,
		Messages:  messages,
		MaxTokens: p.def.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.def.Name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty response", p.def.Name)
	}
	return resp.Choices[0].Message.Content, nil
}

// resolveAPIKey reads the key from the configured environment variable.
// A definition without APIKeyEnv (Ollama) needs no key.
func resolveAPIKey(def domain.ProviderDefinition) (string, error) {
	if def.APIKeyEnv == "" {
		return "", nil
	}
	key := os.Getenv(def.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("provider %s: missing API key, set %s", def.Name, def.APIKeyEnv)
	}
	return key, nil
}
