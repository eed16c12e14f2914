// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-14

// Package gemini provides the language-model completion client used to
// classify issues. It speaks to Gemini through generative-ai-go and to OpenAI
// through the chat completions HTTP API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/similigh/simili-triage/internal/core/triage"
)

const (
	defaultGeminiModel = "gemini-2.0-flash-lite"
	defaultOpenAIModel = "gpt-4o-mini"
)

// Compile-time interface satisfaction check.
var _ triage.Completer = (*LLMClient)(nil)

// LLMClient sends completion requests to the resolved provider.
type LLMClient struct {
	provider    Provider
	gemini      *genai.Client
	openAI      *http.Client
	openAIBase  string
	apiKey      string
	model       string
	retryConfig RetryConfig
}

// NewLLMClient creates a completion client. The provider is resolved from
// GEMINI_API_KEY / OPENAI_API_KEY, falling back to apiKey. An optional model
// overrides the provider default.
func NewLLMClient(apiKey string, model ...string) (*LLMClient, error) {
	selected := ""
	if len(model) > 0 {
		selected = model[0]
	}
	return NewLLMClientForProvider("", apiKey, selected)
}

// NewLLMClientForProvider is NewLLMClient with an explicit provider. An empty
// provider resolves from the environment as NewLLMClient does.
func NewLLMClientForProvider(preferred Provider, apiKey, model string) (*LLMClient, error) {
	provider, resolvedKey, err := ResolvePreferredProvider(preferred, apiKey)
	if err != nil {
		return nil, err
	}

	selected := strings.TrimSpace(model)

	l := &LLMClient{
		provider:    provider,
		apiKey:      resolvedKey,
		retryConfig: RetryConfig{},
	}

	switch provider {
	case ProviderGemini:
		client, err := genai.NewClient(context.Background(), option.WithAPIKey(resolvedKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		l.gemini = client
		if selected == "" || isLikelyOpenAIModel(selected) {
			selected = defaultGeminiModel
		}
	case ProviderOpenAI:
		l.openAI = &http.Client{Timeout: 60 * time.Second}
		l.openAIBase = openAIBaseURL
		if selected == "" || isLikelyGeminiModel(selected) {
			selected = defaultOpenAIModel
		}
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	l.model = selected
	return l, nil
}

// SetRetryConfig enables backoff on transient provider errors. The zero
// RetryConfig (the default) performs exactly one attempt.
func (l *LLMClient) SetRetryConfig(cfg RetryConfig) {
	l.retryConfig = cfg
}

// Close closes underlying provider clients.
func (l *LLMClient) Close() error {
	if l.gemini != nil {
		return l.gemini.Close()
	}
	return nil
}

// Provider returns the resolved provider.
func (l *LLMClient) Provider() string {
	return string(l.provider)
}

// Model returns the resolved model.
func (l *LLMClient) Model() string {
	return l.model
}

// Complete sends one prompt at temperature 0 and returns the raw reply text.
func (l *LLMClient) Complete(ctx context.Context, prompt triage.Prompt) (string, error) {
	return withRetry(ctx, l.retryConfig, "Complete", func() (string, error) {
		switch l.provider {
		case ProviderGemini:
			return l.completeGemini(ctx, prompt)
		case ProviderOpenAI:
			return l.completeOpenAI(ctx, prompt)
		default:
			return "", fmt.Errorf("unsupported provider: %s", l.provider)
		}
	})
}

func (l *LLMClient) completeGemini(ctx context.Context, prompt triage.Prompt) (string, error) {
	model := l.gemini.GenerativeModel(l.model)
	model.SetTemperature(0)
	// Request JSON response for structured parsing
	model.ResponseMIMEType = "application/json"
	if prompt.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	return responseText(resp)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from LLM")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

func isLikelyOpenAIModel(model string) bool {
	m := strings.ToLower(model)
	return strings.HasPrefix(m, "gpt-") || strings.HasPrefix(m, "o1") ||
		strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4")
}

func isLikelyGeminiModel(model string) bool {
	return strings.HasPrefix(strings.ToLower(model), "gemini")
}
