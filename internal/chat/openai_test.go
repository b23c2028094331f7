package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/onboard-hub/onboard/internal/domain"
)

func TestGenerateReply(t *testing.T) {
	var gotAuth string
	var gotReq openAIRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Welcome aboard!"}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-5"})

	reply, err := c.GenerateReply(context.Background(), "How do sprints work?", Context{
		Role: domain.RoleQA,
		Name: "Dana",
	})
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if reply != "Welcome aboard!" {
		t.Errorf("Expected provider reply, got %q", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("Expected system+user messages, got %+v", gotReq.Messages)
	}
	system := gotReq.Messages[0].Content
	if !strings.Contains(system, "QA Engineer") || !strings.Contains(system, "Dana") {
		t.Errorf("System prompt missing learner context: %q", system)
	}
	if gotReq.Messages[1].Content != "How do sprints work?" {
		t.Errorf("User message wrong: %q", gotReq.Messages[1].Content)
	}
}

func TestGenerateReplyProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-5"})

	_, err := c.GenerateReply(context.Background(), "hello", Context{})
	if err == nil {
		t.Fatal("Expected error from provider failure")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("Expected provider message in error, got %v", err)
	}
}

func TestGenerateReplyMissingKey(t *testing.T) {
	c := NewOpenAIClient(OpenAIConfig{Model: "gpt-5"})

	if _, err := c.GenerateReply(context.Background(), "hello", Context{}); err == nil {
		t.Fatal("Expected error when API key is not configured")
	}
}
