package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/similigh/simili-triage/internal/core/triage"
)

// Provider identifies the active AI provider.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

const openAIBaseURL = "https://api.openai.com"

// ResolveProvider selects provider/key using environment variables and config key.
//
// Selection order:
// 1. If both GEMINI_API_KEY and OPENAI_API_KEY are set, Gemini wins.
// 2. If only one env key is set, that provider is selected.
// 3. If no env keys are set, fallback to config api key.
func ResolveProvider(apiKey string) (Provider, string, error) {
	geminiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	openAIKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	configKey := strings.TrimSpace(apiKey)

	switch {
	case geminiKey != "" && openAIKey != "":
		return ProviderGemini, geminiKey, nil
	case geminiKey != "":
		return ProviderGemini, geminiKey, nil
	case openAIKey != "":
		return ProviderOpenAI, openAIKey, nil
	case configKey != "":
		return inferProviderFromKey(configKey), configKey, nil
	default:
		return "", "", fmt.Errorf("no AI API key found (set GEMINI_API_KEY or OPENAI_API_KEY)")
	}
}

// ResolvePreferredProvider pins the provider when preferred is set, taking
// that provider's env key before apiKey. An empty preferred defers to
// ResolveProvider.
func ResolvePreferredProvider(preferred Provider, apiKey string) (Provider, string, error) {
	envVar := ""
	switch Provider(strings.ToLower(string(preferred))) {
	case "":
		return ResolveProvider(apiKey)
	case ProviderGemini:
		preferred, envVar = ProviderGemini, "GEMINI_API_KEY"
	case ProviderOpenAI:
		preferred, envVar = ProviderOpenAI, "OPENAI_API_KEY"
	default:
		return "", "", fmt.Errorf("unsupported provider: %s", preferred)
	}

	if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
		return preferred, key, nil
	}
	if key := strings.TrimSpace(apiKey); key != "" {
		return preferred, key, nil
	}
	return "", "", fmt.Errorf("no API key for %s (set %s or llm.api_key)", preferred, envVar)
}

func inferProviderFromKey(apiKey string) Provider {
	// OpenAI keys commonly use sk-* prefixes. Fall back to Gemini for compatibility.
	if strings.HasPrefix(strings.TrimSpace(apiKey), "sk-") {
		return ProviderOpenAI
	}
	return ProviderGemini
}

// APIError is a non-2xx reply from the OpenAI API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenAI API error (%d): %s", e.StatusCode, e.Message)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (l *LLMClient) completeOpenAI(ctx context.Context, prompt triage.Prompt) (string, error) {
	req := chatRequest{
		Model:       l.model,
		Temperature: 0,
	}
	if prompt.System != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: prompt.System})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: prompt.User})

	var resp chatResponse
	if err := callOpenAIJSON(ctx, l.openAI, l.apiKey, l.openAIBase, "/v1/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from LLM")
	}
	return resp.Choices[0].Message.Content, nil
}

func callOpenAIJSON(ctx context.Context, httpClient *http.Client, apiKey, baseURL, endpoint string, in, out interface{}) error {
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if baseURL == "" {
		baseURL = openAIBaseURL
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal OpenAI request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(baseURL, "/")+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create OpenAI request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read OpenAI response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: extractOpenAIErrorMessage(respBody)}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse OpenAI response: %w", err)
	}

	return nil
}

func extractOpenAIErrorMessage(body []byte) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		msg := strings.TrimSpace(errResp.Error.Message)
		if msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(body))
}
