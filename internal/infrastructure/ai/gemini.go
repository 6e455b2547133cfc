package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/ports"
)

const geminiDefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// geminiProvider speaks the generateContent API, which does not follow the
// chat-completion format.
type geminiProvider struct {
	def        domain.ProviderDefinition
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func newGeminiProvider(def domain.ProviderDefinition, httpClient *http.Client) (ports.Provider, error) {
	apiKey, err := resolveAPIKey(def)
	if err != nil {
		return nil, err
	}
	endpoint := def.Endpoint
	if endpoint == "" {
		endpoint = geminiDefaultEndpoint
	}
	return &geminiProvider{
		def:        def,
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: httpClient,
	}, nil
}

func (p *geminiProvider) Name() string { return p.def.Name }

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

func (p *geminiProvider) Generate(ctx context.Context, req ports.ProviderRequest) (string, error) {
	body, err := p.buildRequest(req)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.endpoint, p.def.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.def.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%s: %s", p.def.Name, resp.Status)
	}

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return "", err
	}
	return parseGeminiResponse(p.def.Name, responseBody.Bytes())
}

func (p *geminiProvider) buildRequest(req ports.ProviderRequest) ([]byte, error) {
	contents := make([]geminiContent, 0, len(req.History)+1)
	for _, msg := range req.History {
		// gemini names the assistant role "model"
		role := msg.Role
		if role == domain.RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  domain.RoleUser,
		Parts: []geminiPart{{Text: req.Prompt}},
	})

	request := map[string]interface{}{
		"contents": contents,
	}
	if req.SystemPrompt != "" {
		request["systemInstruction"] = geminiContent{
			Parts: []geminiPart{{Text: req.SystemPrompt}},
		}
	}
	if p.def.MaxTokens > 0 {
		request["generationConfig"] = map[string]interface{}{
			"maxOutputTokens": p.def.MaxTokens,
		}
	}
	return json.Marshal(request)
}

func parseGeminiResponse(name string, body []byte) (string, error) {
	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", name, err)
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%s: empty response", name)
	}
	return response.Candidates[0].Content.Parts[0].Text, nil
}
