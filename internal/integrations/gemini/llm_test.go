package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"

	"github.com/similigh/simili-triage/internal/core/triage"
)

func newOpenAITestClient(t *testing.T, handler http.HandlerFunc) *LLMClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &LLMClient{
		provider:   ProviderOpenAI,
		openAI:     server.Client(),
		openAIBase: server.URL,
		apiKey:     "sk-test",
		model:      "gpt-4o-mini",
	}
}

func TestCompleteOpenAI(t *testing.T) {
	var got chatRequest
	client := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[{\"number\":1,\"priority\":\"P1\"}]"}}]}`))
	})

	reply, err := client.Complete(context.Background(), triage.Prompt{System: "sys", User: "[]"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if reply != `[{"number":1,"priority":"P1"}]` {
		t.Errorf("unexpected reply %q", reply)
	}

	if got.Model != "gpt-4o-mini" || got.Temperature != 0 {
		t.Errorf("unexpected request %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Errorf("expected system and user messages, got %+v", got.Messages)
	}
}

func TestCompleteOpenAIErrorStatus(t *testing.T) {
	client := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"model not found"}}`))
	})

	_, err := client.Complete(context.Background(), triage.Prompt{User: "[]"})
	if err == nil {
		t.Fatal("expected error for 400 reply")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "model not found" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestCompleteOpenAIRetriesWhenEnabled(t *testing.T) {
	calls := 0
	client := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[]"}}]}`))
	})
	client.SetRetryConfig(RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond})

	reply, err := client.Complete(context.Background(), triage.Prompt{User: "[]"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if reply != "[]" || calls != 2 {
		t.Errorf("expected success on second call, got reply=%q calls=%d", reply, calls)
	}
}

func TestCompleteOpenAIEmptyChoices(t *testing.T) {
	client := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	if _, err := client.Complete(context.Background(), triage.Prompt{User: "[]"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("[{\"number\": 1,"), genai.Text(" \"priority\": \"P0\"}]")}},
		}},
	}

	got, err := responseText(resp)
	if err != nil {
		t.Fatalf("responseText returned error: %v", err)
	}
	if got != `[{"number": 1, "priority": "P0"}]` {
		t.Errorf("unexpected text %q", got)
	}

	if _, err := responseText(&genai.GenerateContentResponse{}); err == nil {
		t.Error("expected error for response without candidates")
	}
	if _, err := responseText(nil); err == nil {
		t.Error("expected error for nil response")
	}
}

func TestModelNameHeuristics(t *testing.T) {
	if !isLikelyOpenAIModel("gpt-4o-mini") || isLikelyOpenAIModel("gemini-2.0-flash") {
		t.Error("isLikelyOpenAIModel misclassified model names")
	}
	if !isLikelyGeminiModel("Gemini-1.5-pro") || isLikelyGeminiModel("gpt-4o") {
		t.Error("isLikelyGeminiModel misclassified model names")
	}
}
